package repository

import (
	"context"

	"restkit/internal/model"
)

// DocumentRepository is the persistence contract for document metadata.
// Implementations live in subpackages (postgres) and hold no business logic.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row,
	// including any values filled in by the database.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns one page of documents plus the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. Deleting a missing row is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
