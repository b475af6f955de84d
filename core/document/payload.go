package document

import (
	"github.com/asaidimu/go-griot/core/query"
	"github.com/asaidimu/go-griot/core/schema"
)

// splitPayload separates an incoming body into the storable payload and the
// relation fields, and validates the payload values against the attribute
// list. Relation values never enter the payload blob; they become graph
// edges. Keys naming no attribute are dropped at this boundary, so the engine
// downstream only ever sees values of shapes the content type declared.
func splitPayload(ct *schema.ContentType, body map[string]any) (map[string]any, map[string]any, error) {
	data := make(map[string]any, len(body))
	relations := make(map[string]any)

	for _, attr := range ct.Attributes {
		value, present := body[attr.Name]
		if !present {
			continue
		}
		if attr.Type == schema.FieldTypeRelation {
			relations[attr.Name] = value
			continue
		}
		if value != nil {
			if err := validateValue(&attr, value); err != nil {
				return nil, nil, err
			}
		}
		data[attr.Name] = value
	}
	return data, relations, nil
}

// validateValue checks one payload value against its attribute's declared
// type. JSON, component and dynamic-zone attributes accept any shape.
func validateValue(attr *schema.Attribute, value any) error {
	switch attr.Type {
	case schema.FieldTypeText, schema.FieldTypeRichText, schema.FieldTypeRichTextMarkdown,
		schema.FieldTypeEmail, schema.FieldTypePassword, schema.FieldTypeUID, schema.FieldTypeDate:
		if _, ok := value.(string); !ok {
			return &ValidationError{Field: attr.Name, Reason: "expected a string"}
		}
	case schema.FieldTypeNumber:
		if _, ok := query.ToComparable(value); !ok {
			return &ValidationError{Field: attr.Name, Reason: "expected a number"}
		}
	case schema.FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			return &ValidationError{Field: attr.Name, Reason: "expected a boolean"}
		}
	case schema.FieldTypeEnumeration:
		s, ok := value.(string)
		if !ok {
			return &ValidationError{Field: attr.Name, Reason: "expected a string"}
		}
		if len(attr.Enum) > 0 {
			for _, allowed := range attr.Enum {
				if s == allowed {
					return nil
				}
			}
			return &ValidationError{Field: attr.Name, Reason: "not one of the enumeration values"}
		}
	case schema.FieldTypeMedia:
		switch value.(type) {
		case string, []any, []string:
		default:
			return &ValidationError{Field: attr.Name, Reason: "expected a media id or list of ids"}
		}
	}
	return nil
}

// relationTargetIDs extracts the ordered public document ids from a relation
// field's value. Targets may arrive as id strings or as objects carrying a
// documentId key; anything else is skipped.
func relationTargetIDs(value any) []string {
	var raw []any
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		raw = v
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	default:
		raw = []any{v}
	}

	var ids []string
	for _, entry := range raw {
		switch t := entry.(type) {
		case string:
			if t != "" {
				ids = append(ids, t)
			}
		case map[string]any:
			if id, ok := t["documentId"].(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
