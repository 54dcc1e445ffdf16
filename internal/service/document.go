package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"restkit/internal/events"
	"restkit/internal/model"
	"restkit/internal/repository"
	"restkit/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("document not found")
	ErrReaderNil  = errors.New("reader is nil")
)

// DefaultPresignExpiry is used when PresignDownload is called without a
// positive expiry.
const DefaultPresignExpiry = 15 * time.Minute

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload streams the content to object storage, saves metadata to the
	// database, and rolls back storage if the save fails. originalFilename
	// is used only for its extension; the stored name is a UUID plus that
	// extension.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Delete removes a document from both storage and the repository.
	Delete(ctx context.Context, id string) error

	// PresignDownload returns a time-limited URL for fetching the
	// document's content directly from object storage.
	PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// documentService is the concrete DocumentService.
type documentService struct {
	store  storage.Storage
	repo   repository.DocumentRepository
	stream events.Publisher
}

// NewDocumentService constructs a DocumentService. A nil publisher disables
// event emission.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, stream events.Publisher) DocumentService {
	if stream == nil {
		stream = events.Noop{}
	}
	return &documentService{store: store, repo: repo, stream: stream}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	ext := filepath.Ext(originalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Filename:    genName,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Roll back the stored object so storage and metadata stay in sync.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.publish(ctx, events.TypeDocumentUploaded, stored)
	return stored, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a document from storage, then deletes its record.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Delete from storage first; a failure here keeps the DB row so the
	// object is never orphaned without a reference.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.TypeDocumentDeleted, doc)
	return nil
}

// PresignDownload returns a time-limited URL for the document's content.
func (s *documentService) PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	u, err := s.store.PresignGet(ctx, doc.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return u, nil
}

// publish emits a lifecycle event. Delivery is best effort: a failed write
// never fails the operation that triggered it.
func (s *documentService) publish(ctx context.Context, typ string, doc *model.Document) {
	_ = s.stream.Publish(ctx, events.Event{
		ID:         uuid.New().String(),
		Type:       typ,
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Size:       doc.Size,
		OccurredAt: time.Now().UTC(),
	})
}
