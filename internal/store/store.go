// Package store holds the current character document. Every change goes
// through Dispatch or Replace, which derive dependent fields, persist the
// result and notify subscribers. A failed change leaves the document as it was.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
)

// Mutation produces the next document from a private copy of the current one
type Mutation func(doc sheet.Document) (sheet.Document, error)

// Listener is notified with the new document after every committed change
type Listener func(doc sheet.Document)

// Config holds the dependencies of a Store
type Config struct {
	Repository  document.Repository
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Initial     *sheet.Document
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// Store is the single writer of the document
type Store struct {
	mu        sync.Mutex
	repo      document.Repository
	clock     clock.Clock
	idGen     idgen.Generator
	doc       sheet.Document
	listeners map[int]Listener
	nextID    int
}

// New creates a store holding cfg.Initial, or the factory defaults
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc := sheet.Defaults()
	if cfg.Initial != nil {
		doc = cfg.Initial.Clone()
	}

	return &Store{
		repo:      cfg.Repository,
		clock:     cfg.Clock,
		idGen:     cfg.IDGenerator,
		doc:       doc,
		listeners: make(map[int]Listener),
	}, nil
}

// Document returns a copy of the current document
func (s *Store) Document() sheet.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Dispatch applies a mutation, recomputes derived fields that depend on what
// changed, persists and notifies
func (s *Store) Dispatch(ctx context.Context, mutation Mutation) error {
	if mutation == nil {
		return errors.InvalidArgument("mutation is required")
	}

	s.mu.Lock()
	next, err := mutation(s.doc.Clone())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next = applyDerivedRules(s.doc, next, false)
	err = s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(next)
	return nil
}

// Replace swaps the whole document, as import and reset do. Every derived
// rule runs.
func (s *Store) Replace(ctx context.Context, doc sheet.Document) error {
	next := applyDerivedRules(sheet.Document{}, doc.Clone(), true)

	s.mu.Lock()
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(next)
	return nil
}

// commit persists next and makes it current. Callers hold the lock.
func (s *Store) commit(ctx context.Context, next sheet.Document) error {
	data, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}

	_, err = s.repo.Save(ctx, &document.SaveInput{
		Data:      string(data),
		UpdatedAt: s.clock.Now().UnixMilli(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to persist document")
	}

	s.doc = next
	return nil
}

// Subscribe registers a listener and returns the function removing it
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(doc sheet.Document) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(doc.Clone())
	}
}

// MaxAppLogs caps the audit trail; the oldest entries are dropped first
const MaxAppLogs = 500

// AppLogInput describes one audit entry
type AppLogInput struct {
	Message  string
	Type     string
	Category string
	// DeduplicationID collapses repeated entries about the same thing
	DeduplicationID string
}

// Log appends an audit entry. An entry sharing the deduplication id is
// updated in place with the new message and timestamp instead.
func (s *Store) Log(ctx context.Context, input *AppLogInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("message", input.Message, vb)
	if err := vb.Build(); err != nil {
		return err
	}

	logType := input.Type
	if logType == "" {
		logType = sheet.LogTypeInfo
	}
	now := s.clock.Now().UnixMilli()

	err := s.Dispatch(ctx, func(doc sheet.Document) (sheet.Document, error) {
		if input.DeduplicationID != "" {
			for i := range doc.AppLogs {
				if doc.AppLogs[i].DeduplicationID == input.DeduplicationID {
					doc.AppLogs[i].Message = input.Message
					doc.AppLogs[i].Timestamp = now
					doc.AppLogs[i].Type = logType
					return doc, nil
				}
			}
		}

		doc.AppLogs = append(doc.AppLogs, sheet.AppLogEntry{
			ID:              s.idGen.Generate(),
			Timestamp:       now,
			Message:         input.Message,
			Type:            logType,
			Category:        input.Category,
			DeduplicationID: input.DeduplicationID,
		})
		if over := len(doc.AppLogs) - MaxAppLogs; over > 0 {
			doc.AppLogs = append([]sheet.AppLogEntry{}, doc.AppLogs[over:]...)
		}
		return doc, nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to append log entry")
	}

	slog.DebugContext(ctx, "sheet log", "category", input.Category, "message", input.Message)
	return nil
}

// NewID returns a fresh entry id
func (s *Store) NewID() string {
	return s.idGen.Generate()
}
