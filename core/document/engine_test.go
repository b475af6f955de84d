package document

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaidimu/go-griot/core/query"
	"github.com/asaidimu/go-griot/core/schema"
)

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()
	types := []*schema.ContentType{
		{
			SingularID: "author",
			PluralID:   "authors",
			Kind:       schema.KindCollection,
			Attributes: []schema.Attribute{
				{Name: "name", Type: schema.FieldTypeText, Required: true},
				{Name: "email", Type: schema.FieldTypeEmail, Unique: true},
			},
			DefaultPublicationState: schema.PublicationPublished,
		},
		{
			SingularID: "article",
			PluralID:   "articles",
			Kind:       schema.KindCollection,
			Attributes: []schema.Attribute{
				{Name: "title", Type: schema.FieldTypeText, Required: true},
				{Name: "slug", Type: schema.FieldTypeUID, Unique: true},
				{Name: "body", Type: schema.FieldTypeRichText},
				{Name: "views", Type: schema.FieldTypeNumber},
				{Name: "authors", Type: schema.FieldTypeRelation, Relation: schema.RelationManyWay, Target: "author"},
				{Name: "cover", Type: schema.FieldTypeMedia},
				{Name: "gallery", Type: schema.FieldTypeMedia, Multiple: true},
			},
			DraftPublish:            true,
			DefaultPublicationState: schema.PublicationPublished,
		},
		{
			SingularID: "homepage",
			PluralID:   "homepages",
			Kind:       schema.KindSingle,
			Attributes: []schema.Attribute{
				{Name: "headline", Type: schema.FieldTypeText},
			},
			DefaultPublicationState: schema.PublicationPublished,
		},
		{
			SingularID: "counter",
			PluralID:   "counters",
			Kind:       schema.KindCollection,
			Attributes: []schema.Attribute{
				{Name: "value", Type: schema.FieldTypeNumber},
			},
			DefaultPublicationState: schema.PublicationPublished,
		},
	}
	for _, ct := range types {
		require.NoError(t, reg.Register(ct))
	}
	return reg
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	engine, err := NewEngine(testRegistry(t), store, store, opts...)
	require.NoError(t, err)
	return engine, store
}

func createArticle(t *testing.T, e *Engine, body map[string]any, opts CreateOptions) map[string]any {
	t.Helper()
	res, err := e.Create(context.Background(), "articles", body, opts)
	require.NoError(t, err)
	return res.Data
}

func TestCreateAndFindOne(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	created := createArticle(t, engine, map[string]any{
		"title":    "Hello",
		"slug":     "hello",
		"views":    3,
		"ignored":  "dropped at the boundary",
		"authors":  []any{},
	}, CreateOptions{})

	docID, ok := created["documentId"].(string)
	require.True(t, ok)
	assert.Len(t, docID, 25)
	assert.Equal(t, "Hello", created["title"])
	assert.Equal(t, "en", created["locale"])
	assert.NotNil(t, created["publishedAt"])
	assert.NotContains(t, created, "ignored")

	got, err := engine.FindOne(ctx, "articles", docID, query.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Data["title"])
	assert.Equal(t, docID, got.Data["documentId"])
	assert.Equal(t, 3, got.Data["views"])
}

func TestFindOneNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.FindOne(context.Background(), "articles", "missing", query.Options{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnknownContentType(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Find(context.Background(), "widgets", query.Options{})
	assert.ErrorIs(t, err, schema.ErrTypeNotFound)
}

func TestPayloadValidation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Create(ctx, "articles", map[string]any{"title": "x", "views": "lots"}, CreateOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "views", verr.Field)

	_, err = engine.Create(ctx, "articles", map[string]any{"title": 7}, CreateOptions{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestUniqueConstraints(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first := createArticle(t, engine, map[string]any{"title": "One", "slug": "go-basics"}, CreateOptions{})

	t.Run("Duplicate value is rejected", func(t *testing.T) {
		_, err := engine.Create(ctx, "articles", map[string]any{"title": "Two", "slug": "go-basics"}, CreateOptions{})
		var uerr *UniqueConstraintError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "slug", uerr.Field)
	})

	t.Run("Values compare trimmed", func(t *testing.T) {
		_, err := engine.Create(ctx, "articles", map[string]any{"title": "Two", "slug": "  go-basics  "}, CreateOptions{})
		var uerr *UniqueConstraintError
		assert.ErrorAs(t, err, &uerr)
	})

	t.Run("Empty values never collide", func(t *testing.T) {
		createArticle(t, engine, map[string]any{"title": "Three", "slug": ""}, CreateOptions{})
		createArticle(t, engine, map[string]any{"title": "Four", "slug": ""}, CreateOptions{})
	})

	t.Run("Update excludes the document itself", func(t *testing.T) {
		docID := first["documentId"].(string)
		_, err := engine.Update(ctx, "articles", docID, map[string]any{"slug": "go-basics"}, UpdateOptions{})
		assert.NoError(t, err)
	})

	t.Run("Update into a taken value is rejected", func(t *testing.T) {
		other := createArticle(t, engine, map[string]any{"title": "Five", "slug": "other"}, CreateOptions{})
		_, err := engine.Update(ctx, "articles", other["documentId"].(string), map[string]any{"slug": "go-basics"}, UpdateOptions{})
		var uerr *UniqueConstraintError
		assert.ErrorAs(t, err, &uerr)
	})
}

func TestSingleTypeExclusivity(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := engine.Create(ctx, "homepages", map[string]any{"headline": "Welcome"}, CreateOptions{})
	require.NoError(t, err)

	_, err = engine.Create(ctx, "homepages", map[string]any{"headline": "Again"}, CreateOptions{})
	assert.ErrorIs(t, err, ErrSingleTypeExists)

	// The existing document remains updatable.
	docID := res.Data["documentId"].(string)
	updated, err := engine.Update(ctx, "homepages", docID, map[string]any{"headline": "Revised"}, UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Revised", updated.Data["headline"])
}

func TestPublicationLenses(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	createArticle(t, engine, map[string]any{"title": "Live", "slug": "live"}, CreateOptions{PublishedAt: &past})
	createArticle(t, engine, map[string]any{"title": "Draft", "slug": "draft"}, CreateOptions{Draft: true})
	createArticle(t, engine, map[string]any{"title": "Scheduled", "slug": "scheduled"}, CreateOptions{PublishedAt: &future})

	titles := func(res *ListResult) []string {
		var out []string
		for _, d := range res.Data {
			out = append(out, d["title"].(string))
		}
		return out
	}

	t.Run("Default lens sees only currently published", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"Live"}, titles(res))
	})

	t.Run("Preview sees everything", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{PublicationState: query.PublicationPreview})
		require.NoError(t, err)
		assert.Len(t, res.Data, 3)
	})

	t.Run("Preview narrows by status", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{
			PublicationState: query.PublicationPreview,
			Status:           query.StatusDraft,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Draft"}, titles(res))

		res, err = engine.Find(ctx, "articles", query.Options{
			PublicationState: query.PublicationPreview,
			Status:           query.StatusScheduled,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Scheduled"}, titles(res))
	})

	t.Run("Unpublish moves a document out of the live lens", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{Filters: map[string]any{"slug": "live"}})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		docID := res.Data[0]["documentId"].(string)

		_, err = engine.Update(ctx, "articles", docID, map[string]any{}, UpdateOptions{Unpublish: true})
		require.NoError(t, err)

		res, err = engine.Find(ctx, "articles", query.Options{})
		require.NoError(t, err)
		assert.Empty(t, res.Data)
	})
}

func TestFindFilters(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	for i, title := range []string{"Go Basics", "Go Advanced", "Rust Basics"} {
		createArticle(t, engine, map[string]any{
			"title": title,
			"slug":  fmt.Sprintf("post-%d", i),
			"views": (i + 1) * 10,
		}, CreateOptions{})
	}

	t.Run("Equality shorthand", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{
			Filters: map[string]any{"title": "Go Basics"},
		})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "post-0", res.Data[0]["slug"])
	})

	t.Run("Range operator", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{
			Filters: map[string]any{"views": map[string]any{"$gte": 20}},
		})
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
		assert.Equal(t, 2, res.Meta.Pagination.Total)
	})

	t.Run("Or group", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{
			Filters: map[string]any{"$or": []any{
				map[string]any{"slug": "post-0"},
				map[string]any{"slug": "post-2"},
			}},
		})
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
	})

	t.Run("Unknown filter fields are ignored", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{
			Filters: map[string]any{"nonexistent": "x"},
		})
		require.NoError(t, err)
		assert.Len(t, res.Data, 3)
	})

	t.Run("Filter on documentId", func(t *testing.T) {
		all, err := engine.Find(ctx, "articles", query.Options{})
		require.NoError(t, err)
		want := all.Data[0]["documentId"].(string)

		res, err := engine.Find(ctx, "articles", query.Options{
			Filters: map[string]any{"documentId": want},
		})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, want, res.Data[0]["documentId"])
	})
}

func TestSortNaturalAndStable(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	for i, title := range []string{"item10", "item2", "item9"} {
		createArticle(t, engine, map[string]any{
			"title": title,
			"slug":  fmt.Sprintf("s-%d", i),
			"views": 1,
		}, CreateOptions{})
	}

	res, err := engine.Find(ctx, "articles", query.Options{Sort: []string{"title:asc"}})
	require.NoError(t, err)
	var titles []string
	for _, d := range res.Data {
		titles = append(titles, d["title"].(string))
	}
	assert.Equal(t, []string{"item2", "item9", "item10"}, titles)

	// Equal primary keys keep a deterministic order across runs.
	first, err := engine.Find(ctx, "articles", query.Options{Sort: []string{"views:asc"}})
	require.NoError(t, err)
	second, err := engine.Find(ctx, "articles", query.Options{Sort: []string{"views:asc"}})
	require.NoError(t, err)
	assert.Equal(t, first.Data, second.Data)

	// A secondary key breaks the tie.
	res, err = engine.Find(ctx, "articles", query.Options{Sort: []string{"views:asc", "title:desc"}})
	require.NoError(t, err)
	assert.Equal(t, "item10", res.Data[0]["title"])
}

func TestSearch(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	createArticle(t, engine, map[string]any{"title": "Concurrency in Go", "slug": "conc", "body": "channels"}, CreateOptions{})
	createArticle(t, engine, map[string]any{"title": "Generics", "slug": "gen", "body": "type parameters in go"}, CreateOptions{})

	t.Run("Case-insensitive across text attributes", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{Search: "IN GO"})
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
	})

	t.Run("Restricted to one field", func(t *testing.T) {
		res, err := engine.Find(ctx, "articles", query.Options{Search: "in go", SearchField: "title"})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "conc", res.Data[0]["slug"])
	})

	t.Run("Falls back to documentId without text attributes", func(t *testing.T) {
		res, err := engine.Create(ctx, "counters", map[string]any{"value": 1}, CreateOptions{})
		require.NoError(t, err)
		docID := res.Data["documentId"].(string)

		found, err := engine.Find(ctx, "counters", query.Options{Search: docID[:10]})
		require.NoError(t, err)
		require.Len(t, found.Data, 1)
		assert.Equal(t, docID, found.Data[0]["documentId"])
	})
}

func TestPushDownPagination(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createArticle(t, engine, map[string]any{
			"title": fmt.Sprintf("Post %d", i),
			"slug":  fmt.Sprintf("post-%d", i),
		}, CreateOptions{})
		time.Sleep(time.Millisecond)
	}

	res, err := engine.Find(ctx, "articles", query.Options{
		Sort:     []string{"createdAt:asc"},
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "post-2", res.Data[0]["slug"])
	assert.Equal(t, "post-3", res.Data[1]["slug"])

	p := res.Meta.Pagination
	require.NotNil(t, p)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 2, p.PageSize)
	assert.Equal(t, 3, p.PageCount)
	assert.Equal(t, 5, p.Total)
}

func TestDefaultSortIsNewestFirst(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	createArticle(t, engine, map[string]any{"title": "Old", "slug": "old"}, CreateOptions{})
	time.Sleep(time.Millisecond)
	createArticle(t, engine, map[string]any{"title": "New", "slug": "new"}, CreateOptions{})

	res, err := engine.Find(ctx, "articles", query.Options{})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "New", res.Data[0]["title"])
}

func TestCandidateCap(t *testing.T) {
	engine, _ := newTestEngine(t, WithCandidateCap(3))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		createArticle(t, engine, map[string]any{
			"title": fmt.Sprintf("Post %d", i),
			"slug":  fmt.Sprintf("post-%d", i),
			"views": i,
		}, CreateOptions{})
	}

	res, err := engine.Find(ctx, "articles", query.Options{
		Filters: map[string]any{"views": map[string]any{"$gte": 0}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Data, 3)
	assert.Equal(t, 3, res.Meta.Pagination.Total)
}

func TestRelations(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	a1, err := engine.Create(ctx, "authors", map[string]any{"name": "Ada", "email": "ada@example.com"}, CreateOptions{})
	require.NoError(t, err)
	a2, err := engine.Create(ctx, "authors", map[string]any{"name": "Grace", "email": "grace@example.com"}, CreateOptions{})
	require.NoError(t, err)
	id1 := a1.Data["documentId"].(string)
	id2 := a2.Data["documentId"].(string)

	created := createArticle(t, engine, map[string]any{
		"title":   "Pioneers",
		"slug":    "pioneers",
		"authors": []any{id1, id2, "notarealdocumentid000000"},
	}, CreateOptions{})
	articleID := created["documentId"].(string)

	t.Run("Unknown targets are skipped, order preserved", func(t *testing.T) {
		res, err := engine.FindOne(ctx, "articles", articleID, query.Options{Populate: "*"})
		require.NoError(t, err)
		authors, ok := res.Data["authors"].([]map[string]any)
		require.True(t, ok)
		require.Len(t, authors, 2)
		assert.Equal(t, "Ada", authors[0]["name"])
		assert.Equal(t, "Grace", authors[1]["name"])
		assert.Equal(t, id1, authors[0]["documentId"])
	})

	t.Run("Update replaces the full edge set", func(t *testing.T) {
		_, err := engine.Update(ctx, "articles", articleID, map[string]any{"authors": []any{id2}}, UpdateOptions{})
		require.NoError(t, err)

		res, err := engine.FindOne(ctx, "articles", articleID, query.Options{Populate: "*"})
		require.NoError(t, err)
		authors := res.Data["authors"].([]map[string]any)
		require.Len(t, authors, 1)
		assert.Equal(t, "Grace", authors[0]["name"])
	})

	t.Run("Write without relation fields clears edges", func(t *testing.T) {
		_, err := engine.Update(ctx, "articles", articleID, map[string]any{"title": "Renamed"}, UpdateOptions{})
		require.NoError(t, err)

		res, err := engine.FindOne(ctx, "articles", articleID, query.Options{Populate: "*"})
		require.NoError(t, err)
		authors := res.Data["authors"].([]map[string]any)
		assert.Empty(t, authors)
	})

	t.Run("Deleting a target removes its edges everywhere", func(t *testing.T) {
		_, err := engine.Update(ctx, "articles", articleID, map[string]any{"authors": []any{id1, id2}}, UpdateOptions{})
		require.NoError(t, err)

		require.NoError(t, engine.Delete(ctx, "authors", id2))

		res, err := engine.FindOne(ctx, "articles", articleID, query.Options{Populate: "*"})
		require.NoError(t, err)
		authors := res.Data["authors"].([]map[string]any)
		require.Len(t, authors, 1)
		assert.Equal(t, "Ada", authors[0]["name"])
	})

	t.Run("Deleting the source removes its outgoing edges", func(t *testing.T) {
		require.NoError(t, engine.Delete(ctx, "articles", articleID))
		assert.Empty(t, store.edges)
		_, err := engine.FindOne(ctx, "articles", articleID, query.Options{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRelationTargetsAsObjects(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	a, err := engine.Create(ctx, "authors", map[string]any{"name": "Ada", "email": "a@example.com"}, CreateOptions{})
	require.NoError(t, err)
	id := a.Data["documentId"].(string)

	created := createArticle(t, engine, map[string]any{
		"title":   "Linked",
		"slug":    "linked",
		"authors": []any{map[string]any{"documentId": id}},
	}, CreateOptions{})

	res, err := engine.FindOne(ctx, "articles", created["documentId"].(string), query.Options{Populate: []string{"authors"}})
	require.NoError(t, err)
	authors := res.Data["authors"].([]map[string]any)
	require.Len(t, authors, 1)
	assert.Equal(t, "Ada", authors[0]["name"])
}

func TestFieldProjection(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	created := createArticle(t, engine, map[string]any{
		"title": "Projected",
		"slug":  "projected",
		"body":  "long body",
	}, CreateOptions{})

	res, err := engine.FindOne(ctx, "articles", created["documentId"].(string), query.Options{Fields: []string{"title"}})
	require.NoError(t, err)

	assert.Equal(t, "Projected", res.Data["title"])
	assert.NotContains(t, res.Data, "body")
	assert.NotContains(t, res.Data, "slug")
	// System fields survive projection.
	assert.Contains(t, res.Data, "documentId")
	assert.Contains(t, res.Data, "createdAt")
	assert.Contains(t, res.Data, "publishedAt")
}

func TestMediaHydration(t *testing.T) {
	media := &memMedia{records: map[string]MediaRecord{
		"m1": {ID: "m1", Name: "cover.png", URL: "/uploads/cover.png"},
		"m2": {ID: "m2", Name: "a.jpg", URL: "/uploads/a.jpg"},
	}}
	engine, _ := newTestEngine(t, WithMediaResolver(media))
	ctx := context.Background()

	created := createArticle(t, engine, map[string]any{
		"title":   "Illustrated",
		"slug":    "illustrated",
		"cover":   "m1",
		"gallery": []any{"m2", "missing"},
	}, CreateOptions{})

	res, err := engine.FindOne(ctx, "articles", created["documentId"].(string), query.Options{Populate: "*"})
	require.NoError(t, err)

	cover, ok := res.Data["cover"].(MediaRecord)
	require.True(t, ok)
	assert.Equal(t, "/uploads/cover.png", cover.URL)

	gallery, ok := res.Data["gallery"].([]MediaRecord)
	require.True(t, ok)
	require.Len(t, gallery, 1)
	assert.Equal(t, "m2", gallery[0].ID)
}

func TestMediaWithoutResolver(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	created := createArticle(t, engine, map[string]any{
		"title": "Raw", "slug": "raw", "cover": "m1",
	}, CreateOptions{})

	res, err := engine.FindOne(ctx, "articles", created["documentId"].(string), query.Options{Populate: "*"})
	require.NoError(t, err)
	assert.Equal(t, "m1", res.Data["cover"])
}

func TestUpdateMergesPayload(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	created := createArticle(t, engine, map[string]any{
		"title": "Original", "slug": "merge", "body": "kept",
	}, CreateOptions{})
	docID := created["documentId"].(string)

	res, err := engine.Update(ctx, "articles", docID, map[string]any{"title": "Changed"}, UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Changed", res.Data["title"])
	assert.Equal(t, "kept", res.Data["body"])
	assert.Equal(t, "merge", res.Data["slug"])
}

func TestDeleteNotFound(t *testing.T) {
	engine, _ := newTestEngine(t)
	err := engine.Delete(context.Background(), "articles", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycleEvents(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	received := make(chan Event, 4)
	unsubscribe := engine.Subscribe(DocumentCreateSuccess, func(ctx context.Context, event Event) error {
		received <- event
		return nil
	})
	defer unsubscribe()

	failures := make(chan Event, 4)
	engine.Subscribe(DocumentCreateFailed, func(ctx context.Context, event Event) error {
		failures <- event
		return nil
	})

	createArticle(t, engine, map[string]any{"title": "Evented", "slug": "evented"}, CreateOptions{})

	select {
	case event := <-received:
		assert.Equal(t, DocumentCreateSuccess, event.Type)
		assert.Equal(t, "create", event.Operation)
		assert.Equal(t, "articles", event.ContentType)
	case <-time.After(2 * time.Second):
		t.Fatal("no success event received")
	}

	_, err := engine.Create(ctx, "articles", map[string]any{"title": "Dup", "slug": "evented"}, CreateOptions{})
	require.Error(t, err)

	select {
	case event := <-failures:
		assert.Equal(t, DocumentCreateFailed, event.Type)
		require.NotNil(t, event.Error)
		assert.Contains(t, *event.Error, "slug")
	case <-time.After(2 * time.Second):
		t.Fatal("no failure event received")
	}
}

func TestScheduleExistingDocument(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	created := createArticle(t, engine, map[string]any{"title": "Hello", "slug": "hello"}, CreateOptions{})
	docID := created["documentId"].(string)

	res, err := engine.Find(ctx, "articles", query.Options{
		Filters: map[string]any{"slug": map[string]any{"$eq": "hello"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)

	// Pushing the publication timestamp into the future reschedules it.
	future := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = engine.Update(ctx, "articles", docID, map[string]any{}, UpdateOptions{PublishedAt: &future})
	require.NoError(t, err)

	scheduled, err := engine.Find(ctx, "articles", query.Options{
		PublicationState: query.PublicationPreview,
		Status:           query.StatusScheduled,
	})
	require.NoError(t, err)
	require.Len(t, scheduled.Data, 1)
	assert.Equal(t, docID, scheduled.Data[0]["documentId"])

	live, err := engine.Find(ctx, "articles", query.Options{})
	require.NoError(t, err)
	assert.Empty(t, live.Data)
}

func TestNewDocumentID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewDocumentID()
		require.Len(t, id, 25)
		for _, c := range id {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'), "unexpected character %q", c)
		}
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}
