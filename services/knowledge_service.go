package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/pkg/docx"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// similarityThreshold drops weakly related chunks from retrieval results.
const similarityThreshold = 0.6

// retrievalCandidates caps how many top-ranked chunks are considered before
// the threshold filter.
const retrievalCandidates = 10

// Embedder computes vector embeddings. Satisfied by
// langchaingo/embeddings.Embedder; tests plug in a fake.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type KnowledgeService struct {
	DB         *gorm.DB
	SourceRepo *repository.SourceRepository
	DocRepo    *repository.DocumentRepository
	OrgRepo    *repository.OrganizationRepository

	Embedder     Embedder
	UploadDir    string
	ChunkSize    int
	ChunkOverlap int
	Log          *zap.Logger
}

func NewKnowledgeService(
	db *gorm.DB,
	sourceRepo *repository.SourceRepository,
	docRepo *repository.DocumentRepository,
	orgRepo *repository.OrganizationRepository,
	embedder Embedder,
	uploadDir string,
	chunkSize, chunkOverlap int,
	log *zap.Logger,
) *KnowledgeService {
	return &KnowledgeService{
		DB:         db,
		SourceRepo: sourceRepo,
		DocRepo:    docRepo,
		OrgRepo:    orgRepo,

		Embedder:     embedder,
		UploadDir:    uploadDir,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Log:          log,
	}
}

// CreateTextSource ingests pasted text: split, embed, and persist the source
// with its chunks in one transaction. Nothing is queryable unless the whole
// ingestion succeeded.
func (s *KnowledgeService) CreateTextSource(ctx context.Context, orgID, title, content string) (*entity.Source, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidPayload)
	}

	source := &entity.Source{
		OrganizationID: orgID,
		Type:           entity.SourceTypeText,
		Name:           title,
		Content:        content,
	}
	docs := []schema.Document{{
		PageContent: content,
		Metadata: map[string]any{
			"source":       "text",
			"sourceId":     "",
			"restaurantId": orgID,
		},
	}}

	if err := s.ingest(ctx, source, docs); err != nil {
		return nil, err
	}
	return source, nil
}

// CreateFileSource stores the uploaded binary, extracts its text with a
// loader picked by MIME type, and ingests it. The stored file is removed
// again when ingestion fails.
func (s *KnowledgeService) CreateFileSource(ctx context.Context, orgID, fileName, mimeType string, data []byte) (*entity.Source, error) {
	if fileName == "" || len(data) == 0 {
		return nil, fmt.Errorf("%w: file is required", ErrInvalidPayload)
	}

	docs, text, err := s.loadDocuments(ctx, orgID, mimeType, data)
	if err != nil {
		return nil, err
	}

	filePath, err := s.storeFile(orgID, fileName, data)
	if err != nil {
		return nil, err
	}

	source := &entity.Source{
		OrganizationID: orgID,
		Type:           entity.SourceTypeFile,
		Name:           fileName,
		Content:        text, // extracted once; re-processing never re-reads the binary
		FileName:       fileName,
		FilePath:       filePath,
		MimeType:       mimeType,
		Size:           int64(len(data)),
	}

	if err := s.ingest(ctx, source, docs); err != nil {
		if rmErr := os.Remove(filepath.Join(s.UploadDir, filePath)); rmErr != nil {
			s.Log.Warn("orphaned upload left behind", zap.String("path", filePath), zap.Error(rmErr))
		}
		return nil, err
	}
	return source, nil
}

// ingest splits, embeds, and writes source + documents atomically. All
// external work (embedding) happens before the transaction opens.
func (s *KnowledgeService) ingest(ctx context.Context, source *entity.Source, docs []schema.Document) error {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(s.ChunkSize),
		textsplitter.WithChunkOverlap(s.ChunkOverlap),
	)
	chunks, err := textsplitter.SplitDocuments(splitter, docs)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("%w: source produced no text", ErrInvalidPayload)
	}

	if s.Embedder == nil {
		return fmt.Errorf("embedding backend not configured")
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.PageContent
	}
	vectors, err := s.Embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.SourceRepo.Create(tx, source); err != nil {
			return err
		}

		rows := make([]entity.Document, 0, len(chunks))
		for i, c := range chunks {
			c.Metadata["sourceId"] = source.ID
			meta, err := json.Marshal(c.Metadata)
			if err != nil {
				return err
			}
			doc := entity.Document{
				SourceID: source.ID,
				Content:  c.PageContent,
				Metadata: string(meta),
			}
			if err := doc.SetEmbedding(vectors[i]); err != nil {
				return err
			}
			rows = append(rows, doc)
		}
		return s.DocRepo.CreateBatch(tx, rows)
	})
	if err != nil {
		return err
	}

	s.Log.Info("source ingested",
		zap.String("sourceId", source.ID),
		zap.String("organizationId", source.OrganizationID),
		zap.String("type", source.Type),
		zap.Int("chunks", len(chunks)))
	return nil
}

// loadDocuments extracts text from an uploaded file, choosing the loader by
// MIME type. Returns the loader documents plus the concatenated plain text.
func (s *KnowledgeService) loadDocuments(ctx context.Context, orgID, mimeType string, data []byte) ([]schema.Document, string, error) {
	var (
		docs []schema.Document
		err  error
	)
	switch mimeType {
	case "application/pdf":
		loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
		docs, err = loader.Load(ctx)
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		text, exErr := docx.ExtractText(data)
		if exErr != nil {
			return nil, "", exErr
		}
		docs = []schema.Document{{PageContent: text, Metadata: map[string]any{}}}
	case "text/plain", "text/markdown":
		loader := documentloaders.NewText(bytes.NewReader(data))
		docs, err = loader.Load(ctx)
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	if err != nil {
		return nil, "", err
	}

	parts := make([]string, 0, len(docs))
	for i := range docs {
		if docs[i].Metadata == nil {
			docs[i].Metadata = map[string]any{}
		}
		docs[i].Metadata["source"] = "file"
		docs[i].Metadata["restaurantId"] = orgID
		parts = append(parts, docs[i].PageContent)
	}
	return docs, strings.Join(parts, "\n\n"), nil
}

func (s *KnowledgeService) storeFile(orgID, fileName string, data []byte) (string, error) {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	ext := filepath.Ext(fileName)
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(suffix), ext)
	rel := filepath.Join("sources", orgID, name)

	abs := filepath.Join(s.UploadDir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

// ListTextSources returns one page of pasted-text sources.
func (s *KnowledgeService) ListTextSources(orgID string, page, pageSize int) ([]entity.Source, int64, error) {
	return s.SourceRepo.ListByType(orgID, entity.SourceTypeText, page, pageSize)
}

// ListFileSources returns one page of uploaded-file sources.
func (s *KnowledgeService) ListFileSources(orgID string, page, pageSize int) ([]entity.Source, int64, error) {
	return s.SourceRepo.ListByType(orgID, entity.SourceTypeFile, page, pageSize)
}

// DeleteSource removes the source, its chunks, and any stored file.
func (s *KnowledgeService) DeleteSource(orgID, sourceID string) error {
	source, err := s.SourceRepo.FindForOrganization(orgID, sourceID)
	if err != nil {
		return fmt.Errorf("%w: source %s", ErrNotFound, sourceID)
	}

	if _, err := s.SourceRepo.Delete(orgID, sourceID); err != nil {
		return err
	}

	if source.FilePath != "" {
		if err := os.Remove(filepath.Join(s.UploadDir, source.FilePath)); err != nil && !os.IsNotExist(err) {
			s.Log.Warn("stored file not removed", zap.String("path", source.FilePath), zap.Error(err))
		}
	}
	return nil
}

// scoredChunk pairs a chunk with its query similarity.
type scoredChunk struct {
	doc   entity.Document
	score float64
}

// Retrieve embeds the query, ranks the organization's chunks by cosine
// similarity, keeps the best candidates above the relevance threshold, and
// serializes them for the voice agent's context window.
func (s *KnowledgeService) Retrieve(ctx context.Context, orgID, query string) (string, error) {
	if _, err := s.OrgRepo.FindByID(orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
		}
		return "", err
	}

	if s.Embedder == nil {
		return "", fmt.Errorf("embedding backend not configured")
	}
	queryVec, err := s.Embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	docs, err := s.DocRepo.ListByOrganization(orgID)
	if err != nil {
		return "", err
	}

	scored := make([]scoredChunk, 0, len(docs))
	for _, d := range docs {
		vec, err := d.EmbeddingVector()
		if err != nil {
			s.Log.Warn("skipping chunk with unreadable embedding", zap.String("documentId", d.ID), zap.Error(err))
			continue
		}
		scored = append(scored, scoredChunk{doc: d, score: cosineSimilarity(queryVec, vec)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if len(scored) > retrievalCandidates {
		scored = scored[:retrievalCandidates]
	}

	blocks := make([]string, 0, len(scored))
	for _, sc := range scored {
		if sc.score <= similarityThreshold {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Source: %s\nContent: %s", sourceLabel(sc.doc.Metadata), sc.doc.Content))
	}
	return strings.Join(blocks, "\n"), nil
}

// sourceLabel pulls the "source" metadata field written at ingestion time.
func sourceLabel(metadata string) string {
	var meta map[string]any
	if err := json.Unmarshal([]byte(metadata), &meta); err == nil {
		if v, ok := meta["source"].(string); ok {
			return v
		}
	}
	return "unknown"
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
