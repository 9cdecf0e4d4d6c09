package document

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// InMemoryRepository implements Repository without persistence beyond the
// process
type InMemoryRepository struct {
	mu        sync.RWMutex
	data      string
	found     bool
	updatedAt int64
}

// NewInMemory creates an empty in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Load returns the saved text
func (r *InMemoryRepository) Load(_ context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return &LoadOutput{Data: r.data, Found: r.found, UpdatedAt: r.updatedAt}, nil
}

// Save replaces the saved text
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.Data == "" {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = input.Data
	r.found = true
	r.updatedAt = input.UpdatedAt
	return &SaveOutput{}, nil
}

// Clear forgets the saved text
func (r *InMemoryRepository) Clear(_ context.Context, input *ClearInput) (*ClearOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existed := r.found
	r.data, r.found, r.updatedAt = "", false, 0
	return &ClearOutput{Existed: existed}, nil
}
