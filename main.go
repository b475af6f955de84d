package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/asaidimu/go-griot/core/document"
	"github.com/asaidimu/go-griot/core/query"
	"github.com/asaidimu/go-griot/core/schema"
	"github.com/asaidimu/go-griot/sqlite"
)

const dbFileName = "griot.db"

func main() {
	// Start fresh: remove the database file if it already exists.
	if err := os.Remove(dbFileName); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database file %s: %v", dbFileName, err)
	}

	db, err := sql.Open("sqlite3", dbFileName)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer func() {
		if cErr := db.Close(); cErr != nil {
			log.Printf("Error closing database connection: %v", cErr)
		}
	}()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// --- Content types are data, not compiled schema ---
	registry := schema.NewRegistry()
	mustRegister(registry, &schema.ContentType{
		SingularID: "author",
		PluralID:   "authors",
		Kind:       schema.KindCollection,
		Attributes: []schema.Attribute{
			{Name: "name", Type: schema.FieldTypeText, Required: true},
			{Name: "email", Type: schema.FieldTypeEmail, Unique: true},
		},
		DefaultPublicationState: schema.PublicationPublished,
	})
	mustRegister(registry, &schema.ContentType{
		SingularID: "article",
		PluralID:   "articles",
		Kind:       schema.KindCollection,
		Attributes: []schema.Attribute{
			{Name: "title", Type: schema.FieldTypeText, Required: true},
			{Name: "slug", Type: schema.FieldTypeUID, Unique: true},
			{Name: "body", Type: schema.FieldTypeRichText},
			{Name: "views", Type: schema.FieldTypeNumber},
			{Name: "author", Type: schema.FieldTypeRelation, Relation: schema.RelationManyToOne, Target: "author"},
		},
		DraftPublish:            true,
		DefaultPublicationState: schema.PublicationDraft,
	})

	store, err := sqlite.NewStore(db, logger)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	engine, err := document.NewEngine(registry, store, store, document.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	// Observe the write path.
	unsubscribe := engine.Subscribe(document.DocumentCreateSuccess, func(ctx context.Context, ev document.Event) error {
		fmt.Printf(">> created a %s document\n", ev.ContentType)
		return nil
	})
	defer unsubscribe()

	ctx := context.Background()

	// --- Create an author and a few articles ---
	author, err := engine.Create(ctx, "authors", map[string]any{
		"name":  "Ama Mensah",
		"email": "ama@example.com",
	}, document.CreateOptions{})
	if err != nil {
		log.Fatalf("Failed to create author: %v", err)
	}
	authorID := author.Data["documentId"].(string)

	for i := 1; i <= 12; i++ {
		_, err := engine.Create(ctx, "articles", map[string]any{
			"title":  fmt.Sprintf("Field notes, part %d", i),
			"slug":   fmt.Sprintf("field-notes-%d", i),
			"body":   "Collected observations.",
			"views":  i * 10,
			"author": authorID,
		}, document.CreateOptions{PublishedAt: timePtr(time.Now().Add(-time.Duration(i) * time.Hour))})
		if err != nil {
			log.Fatalf("Failed to create article: %v", err)
		}
	}

	// A duplicate slug is rejected with the offending attribute name.
	if _, err := engine.Create(ctx, "articles", map[string]any{
		"title": "Field notes, again",
		"slug":  "field-notes-1",
	}, document.CreateOptions{}); err != nil {
		fmt.Printf("duplicate create rejected: %v\n", err)
	}

	// --- Filtered, sorted, paginated query (in-memory path) ---
	result, err := engine.Find(ctx, "articles", query.Options{
		Filters:  map[string]any{"views": map[string]any{"$between": []any{30, 90}}},
		Sort:     []string{"views:desc"},
		PageSize: 5,
		Populate: "*",
	})
	if err != nil {
		log.Fatalf("Failed to query articles: %v", err)
	}
	printResult("views between 30 and 90, most viewed first", result)

	// --- Untouched request shape: storage push-down path ---
	result, err = engine.Find(ctx, "articles", query.Options{
		Sort:     []string{"createdAt:asc"},
		PageSize: 3,
		Page:     2,
	})
	if err != nil {
		log.Fatalf("Failed to query articles: %v", err)
	}
	printResult("page 2 of 3-per-page, oldest first", result)

	// --- Free-text search under the preview lens ---
	result, err = engine.Find(ctx, "articles", query.Options{
		Search:           "part 1",
		PublicationState: query.PublicationPreview,
	})
	if err != nil {
		log.Fatalf("Failed to search articles: %v", err)
	}
	printResult("search for 'part 1'", result)
}

func mustRegister(registry *schema.Registry, ct *schema.ContentType) {
	if err := registry.Register(ct); err != nil {
		log.Fatalf("Failed to register content type %q: %v", ct.PluralID, err)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func printResult(label string, result *document.ListResult) {
	fmt.Printf("\n=== %s (total %d) ===\n", label, result.Meta.Pagination.Total)
	for _, doc := range result.Data {
		line, _ := json.Marshal(map[string]any{
			"documentId": doc["documentId"],
			"title":      doc["title"],
			"views":      doc["views"],
		})
		fmt.Println(string(line))
	}
}
