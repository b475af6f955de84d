// Package schema defines runtime content-type definitions: each content type
// carries an ordered list of attribute definitions describing the shape of its
// documents. The engine never compiles these shapes; they are data, resolved
// through a Registry at request time.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType represents the semantic type of an attribute.
type FieldType string

const (
	FieldTypeText             FieldType = "text"
	FieldTypeRichText         FieldType = "richtext"
	FieldTypeRichTextMarkdown FieldType = "richtext-markdown"
	FieldTypeNumber           FieldType = "number"
	FieldTypeDate             FieldType = "date"
	FieldTypeBoolean          FieldType = "boolean"
	FieldTypeJSON             FieldType = "json"
	FieldTypeEmail            FieldType = "email"
	FieldTypePassword         FieldType = "password"
	FieldTypeEnumeration      FieldType = "enumeration"
	FieldTypeUID              FieldType = "uid"
	FieldTypeMedia            FieldType = "media"
	FieldTypeRelation         FieldType = "relation"
	FieldTypeComponent        FieldType = "component"
	FieldTypeDynamicZone      FieldType = "dynamiczone"
)

// textLikeTypes are the attribute types considered searchable free text.
var textLikeTypes = map[FieldType]struct{}{
	FieldTypeText:             {},
	FieldTypeRichText:         {},
	FieldTypeRichTextMarkdown: {},
	FieldTypeEmail:            {},
	FieldTypeUID:              {},
}

// IsTextLike reports whether values of this type participate in free-text search.
func (t FieldType) IsTextLike() bool {
	_, ok := textLikeTypes[t]
	return ok
}

// RelationKind describes the cardinality of a relation attribute.
type RelationKind string

const (
	RelationOneToOne   RelationKind = "oneToOne"
	RelationOneToMany  RelationKind = "oneToMany"
	RelationManyToOne  RelationKind = "manyToOne"
	RelationManyToMany RelationKind = "manyToMany"
	RelationOneWay     RelationKind = "oneWay"
	RelationManyWay    RelationKind = "manyWay"
)

// IsMulti reports whether the relation hydrates as an array rather than a
// single object.
func (k RelationKind) IsMulti() bool {
	switch k {
	case RelationOneToMany, RelationManyToOne, RelationManyToMany, RelationManyWay:
		return true
	}
	return false
}

// ContentTypeKind distinguishes collection types from single types.
type ContentTypeKind string

const (
	KindCollection ContentTypeKind = "collectionType"
	KindSingle     ContentTypeKind = "singleType"
)

// PublicationState is the default state applied to newly created documents.
type PublicationState string

const (
	PublicationDraft     PublicationState = "draft"
	PublicationPublished PublicationState = "published"
)

// Attribute describes a single field of a content type. Attribute names are
// unique within their type. Relation attributes additionally carry the target
// content type and cardinality; media attributes carry the multiplicity flag.
type Attribute struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Unique   bool      `json:"unique,omitempty"`
	Private  bool      `json:"private,omitempty"`

	// Enumeration values, for FieldTypeEnumeration.
	Enum []string `json:"enum,omitempty"`
	// Relation is the cardinality kind, for FieldTypeRelation.
	Relation RelationKind `json:"relation,omitempty"`
	// Target is the singular id of the related content type.
	Target string `json:"target,omitempty"`
	// Multiple marks a media attribute as holding a list of media ids.
	Multiple bool `json:"multiple,omitempty"`
}

// ContentType is the runtime definition of a document shape. It is owned by
// the Registry and read-only to the engine.
type ContentType struct {
	ID                      string           `json:"id"`
	SingularID              string           `json:"singularId"`
	PluralID                string           `json:"pluralId"`
	Kind                    ContentTypeKind  `json:"kind"`
	Attributes              []Attribute      `json:"attributes"`
	DraftPublish            bool             `json:"draftPublish,omitempty"`
	DefaultPublicationState PublicationState `json:"defaultPublicationState,omitempty"`
}

// Attribute returns the attribute definition with the given name, or nil.
func (ct *ContentType) Attribute(name string) *Attribute {
	for i := range ct.Attributes {
		if ct.Attributes[i].Name == name {
			return &ct.Attributes[i]
		}
	}
	return nil
}

// AttributeNames returns the set of attribute names defined on the type.
func (ct *ContentType) AttributeNames() map[string]struct{} {
	names := make(map[string]struct{}, len(ct.Attributes))
	for _, a := range ct.Attributes {
		names[a.Name] = struct{}{}
	}
	return names
}

// UniqueAttributes returns the attributes flagged unique, in definition order.
func (ct *ContentType) UniqueAttributes() []Attribute {
	var out []Attribute
	for _, a := range ct.Attributes {
		if a.Unique {
			out = append(out, a)
		}
	}
	return out
}

// RelationAttributes returns the relation attributes, in definition order.
func (ct *ContentType) RelationAttributes() []Attribute {
	var out []Attribute
	for _, a := range ct.Attributes {
		if a.Type == FieldTypeRelation {
			out = append(out, a)
		}
	}
	return out
}

// ParseAttributes decodes an attribute list from its stored JSON form.
// A malformed blob degrades to an empty list rather than failing the caller.
func ParseAttributes(raw []byte) []Attribute {
	var attrs []Attribute
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil
	}
	return attrs
}

// reservedIDs are plural identifiers claimed by the surrounding system's own
// routes and therefore unavailable as content-type ids.
var reservedIDs = map[string]struct{}{
	"auth":            {},
	"upload":          {},
	"content-types":   {},
	"content-manager": {},
	"users":           {},
	"roles":           {},
	"permissions":     {},
	"media":           {},
	"admin":           {},
}

// IsReservedID reports whether a plural id collides with a reserved route.
func IsReservedID(pluralID string) bool {
	_, ok := reservedIDs[strings.ToLower(pluralID)]
	return ok
}

// Validate performs structural checks on a content-type definition: non-empty
// identifiers, a known kind, unique attribute names, and relation attributes
// carrying a cardinality.
func (ct *ContentType) Validate() error {
	if ct.SingularID == "" || ct.PluralID == "" {
		return fmt.Errorf("content type requires singular and plural ids")
	}
	if IsReservedID(ct.PluralID) {
		return fmt.Errorf("content type plural id %q is reserved", ct.PluralID)
	}
	if ct.Kind != KindCollection && ct.Kind != KindSingle {
		return fmt.Errorf("content type %q has unknown kind %q", ct.PluralID, ct.Kind)
	}
	seen := make(map[string]struct{}, len(ct.Attributes))
	for _, a := range ct.Attributes {
		if a.Name == "" {
			return fmt.Errorf("content type %q has an attribute with no name", ct.PluralID)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("content type %q defines attribute %q twice", ct.PluralID, a.Name)
		}
		seen[a.Name] = struct{}{}
		if a.Type == FieldTypeRelation && a.Relation == "" {
			return fmt.Errorf("relation attribute %q on %q has no cardinality", a.Name, ct.PluralID)
		}
	}
	return nil
}
