// Package document defines persistence for the serialized character document.
// The store only ever needs the last saved text back, so backends are plain
// key/value slots.
package document

//go:generate mockgen -destination=mock/mock_repository.go -package=documentmock github.com/KirkDiggler/rpg-sheet/internal/repositories/document Repository

import (
	"context"
)

// DefaultKey names the slot used when none is configured
const DefaultKey = "document"

// Repository persists one serialized document
type Repository interface {
	// Load returns the last saved text
	// Found is false when nothing was ever saved or the slot was cleared
	// Returns errors.Unavailable when the backend cannot be reached
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// Save replaces the saved text
	// Returns errors.InvalidArgument for empty data
	// Returns errors.Unavailable when the backend cannot be reached
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Clear removes the saved text
	// Returns errors.Unavailable when the backend cannot be reached
	Clear(ctx context.Context, input *ClearInput) (*ClearOutput, error)
}

// LoadInput defines the input for loading the document
type LoadInput struct{}

// LoadOutput defines the output for loading the document
type LoadOutput struct {
	Data      string
	Found     bool
	UpdatedAt int64 // unix milliseconds, 0 when unknown
}

// SaveInput defines the input for saving the document
type SaveInput struct {
	Data      string
	UpdatedAt int64 // unix milliseconds
}

// SaveOutput defines the output for saving the document
type SaveOutput struct{}

// ClearInput defines the input for clearing the document
type ClearInput struct{}

// ClearOutput defines the output for clearing the document
type ClearOutput struct {
	Existed bool
}

const (
	errInputNil  = "input is required"
	errDataEmpty = "document data cannot be empty"
)
