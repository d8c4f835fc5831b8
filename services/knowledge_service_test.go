package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeEmbedder returns canned vectors keyed by text prefix; unknown texts get
// a near-orthogonal vector so they fall under the similarity threshold.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) embed(text string) []float32 {
	for prefix, vec := range f.vectors {
		if strings.HasPrefix(text, prefix) {
			return vec
		}
	}
	return []float32{0, 0, 1}
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.embed(text)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	return f.embed(text), nil
}

func newKnowledgeService(t *testing.T, db *gorm.DB, emb Embedder) *KnowledgeService {
	t.Helper()
	return NewKnowledgeService(
		db,
		repository.NewSourceRepository(db),
		repository.NewDocumentRepository(db),
		repository.NewOrganizationRepository(db),
		emb,
		t.TempDir(),
		1000, 150,
		zap.NewNop(),
	)
}

func TestCreateTextSourcePersistsChunks(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")

	emb := &fakeEmbedder{vectors: map[string][]float32{"We open": {1, 0, 0}}}
	svc := newKnowledgeService(t, db, emb)

	source, err := svc.CreateTextSource(context.Background(), org.ID, "Opening hours", "We open at 9am every day.")
	if err != nil {
		t.Fatalf("CreateTextSource: %v", err)
	}
	if source.Type != entity.SourceTypeText {
		t.Errorf("type = %q, want text", source.Type)
	}

	var docs []entity.Document
	if err := db.Where("source_id = ?", source.ID).Find(&docs).Error; err != nil {
		t.Fatalf("load documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("documents = %d, want 1", len(docs))
	}
	vec, err := docs[0].EmbeddingVector()
	if err != nil {
		t.Fatalf("decode embedding: %v", err)
	}
	if len(vec) != 3 || vec[0] != 1 {
		t.Errorf("embedding = %v, want [1 0 0]", vec)
	}
}

func TestCreateTextSourceValidation(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")
	svc := newKnowledgeService(t, db, &fakeEmbedder{})

	if _, err := svc.CreateTextSource(context.Background(), org.ID, "", "content"); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("missing title err = %v, want ErrInvalidPayload", err)
	}
	if _, err := svc.CreateTextSource(context.Background(), org.ID, "title", "  "); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("blank content err = %v, want ErrInvalidPayload", err)
	}
}

func TestIngestionIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")

	svc := newKnowledgeService(t, db, &fakeEmbedder{fail: true})

	_, err := svc.CreateTextSource(context.Background(), org.ID, "Opening hours", "We open at 9am.")
	if err == nil {
		t.Fatal("expected error from failing embedder")
	}

	// a failed ingestion must leave no partial source behind
	var count int64
	db.Model(&entity.Source{}).Count(&count)
	if count != 0 {
		t.Errorf("sources persisted = %d, want 0", count)
	}
	db.Model(&entity.Document{}).Count(&count)
	if count != 0 {
		t.Errorf("documents persisted = %d, want 0", count)
	}
}

func TestCreateFileSourceUnsupportedType(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")
	svc := newKnowledgeService(t, db, &fakeEmbedder{})

	_, err := svc.CreateFileSource(context.Background(), org.ID, "menu.xlsx",
		"application/vnd.ms-excel", []byte("binary"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestCreateFileSourcePlainText(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")

	emb := &fakeEmbedder{vectors: map[string][]float32{"Our house wine": {1, 0, 0}}}
	svc := newKnowledgeService(t, db, emb)

	source, err := svc.CreateFileSource(context.Background(), org.ID, "wine.txt",
		"text/plain", []byte("Our house wine is a Chianti."))
	if err != nil {
		t.Fatalf("CreateFileSource: %v", err)
	}
	if source.Type != entity.SourceTypeFile {
		t.Errorf("type = %q, want file", source.Type)
	}
	if source.Content != "Our house wine is a Chianti." {
		t.Errorf("extracted content = %q", source.Content)
	}
	if source.FilePath == "" {
		t.Error("file path not recorded")
	}
}

func TestRetrieveFiltersAndSerializes(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")

	emb := &fakeEmbedder{vectors: map[string][]float32{
		"We open":   {1, 0, 0},
		"Parking":   {0.8, 0.6, 0}, // cosine 0.8 vs the query: kept
		"Wifi code": {0, 1, 0},     // orthogonal: dropped
		"When do":   {1, 0, 0},     // the query
	}}
	svc := newKnowledgeService(t, db, emb)

	ctx := context.Background()
	for _, src := range []struct{ title, content string }{
		{"Hours", "We open at 9am."},
		{"Parking", "Parking is behind the building."},
		{"Wifi", "Wifi code is on the receipt."},
	} {
		if _, err := svc.CreateTextSource(ctx, org.ID, src.title, src.content); err != nil {
			t.Fatalf("seed source %s: %v", src.title, err)
		}
	}

	got, err := svc.Retrieve(ctx, org.ID, "When do you open?")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	if !strings.Contains(got, "Content: We open at 9am.") {
		t.Errorf("best match missing from:\n%s", got)
	}
	if !strings.Contains(got, "Content: Parking is behind the building.") {
		t.Errorf("above-threshold match missing from:\n%s", got)
	}
	if strings.Contains(got, "Wifi") {
		t.Errorf("below-threshold chunk leaked into:\n%s", got)
	}
	if !strings.HasPrefix(got, "Source: text\n") {
		t.Errorf("serialization does not lead with the source label:\n%s", got)
	}
	// chunks are ranked best first
	if strings.Index(got, "We open") > strings.Index(got, "Parking") {
		t.Errorf("results not ordered by similarity:\n%s", got)
	}
}

func TestRetrieveUnknownOrganization(t *testing.T) {
	db := newTestDB(t)
	svc := newKnowledgeService(t, db, &fakeEmbedder{})

	_, err := svc.Retrieve(context.Background(), "00000000-0000-0000-0000-000000000000", "anything")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRetrieveIsolatesTenants(t *testing.T) {
	db := newTestDB(t)
	orgA := seedOrganization(t, db, "org-a", "agent-a")
	orgB := seedOrganization(t, db, "org-b", "agent-b")

	emb := &fakeEmbedder{vectors: map[string][]float32{
		"We open": {1, 0, 0},
		"When do": {1, 0, 0},
	}}
	svc := newKnowledgeService(t, db, emb)

	ctx := context.Background()
	if _, err := svc.CreateTextSource(ctx, orgA.ID, "Hours", "We open at 9am."); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.Retrieve(ctx, orgB.ID, "When do you open?")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got != "" {
		t.Errorf("tenant B saw tenant A's chunks: %q", got)
	}
}

func TestDeleteSourceRemovesChunks(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")

	emb := &fakeEmbedder{vectors: map[string][]float32{"We open": {1, 0, 0}}}
	svc := newKnowledgeService(t, db, emb)

	source, err := svc.CreateTextSource(context.Background(), org.ID, "Hours", "We open at 9am.")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.DeleteSource(org.ID, source.ID); err != nil {
		t.Fatalf("DeleteSource: %v", err)
	}

	var count int64
	db.Model(&entity.Document{}).Count(&count)
	if count != 0 {
		t.Errorf("documents after delete = %d, want 0", count)
	}

	if err := svc.DeleteSource(org.ID, source.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListSourcesPaginates(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")

	emb := &fakeEmbedder{vectors: map[string][]float32{"note": {1, 0, 0}}}
	svc := newKnowledgeService(t, db, emb)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		title := fmt.Sprintf("Note %d", i)
		if _, err := svc.CreateTextSource(ctx, org.ID, title, fmt.Sprintf("note %d body", i)); err != nil {
			t.Fatalf("seed %s: %v", title, err)
		}
	}

	page, total, err := svc.ListTextSources(org.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListTextSources: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}

	files, total, err := svc.ListFileSources(org.ID, 1, 10)
	if err != nil {
		t.Fatalf("ListFileSources: %v", err)
	}
	if total != 0 || len(files) != 0 {
		t.Errorf("file sources = %d/%d, want none", len(files), total)
	}
}
