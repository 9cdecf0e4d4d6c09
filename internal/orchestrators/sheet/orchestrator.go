// Package sheet implements the character sheet use cases on top of the
// document store, the migration engine and the import/export projections
package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/migration"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
	"github.com/KirkDiggler/rpg-sheet/internal/transfer"
)

// Audit log categories
const (
	LogCategoryLoad     = "load"
	LogCategoryImport   = "import"
	LogCategoryReset    = "reset"
	LogCategoryCreation = "creation"
)

// Service defines the character sheet use cases
type Service interface {
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error)

	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)
	Reset(ctx context.Context, input *ResetInput) (*ResetOutput, error)

	Validate(ctx context.Context, input *ValidateInput) (*ValidateOutput, error)
	StartCreation(ctx context.Context, input *StartCreationInput) (*StartCreationOutput, error)
	FinalizeCreation(ctx context.Context, input *FinalizeCreationInput) (*FinalizeCreationOutput, error)
}

// Config holds the dependencies for the sheet orchestrator
type Config struct {
	Repository  document.Repository
	Clock       clock.Clock
	IDGenerator idgen.Generator
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

type orchestrator struct {
	repo  document.Repository
	store *store.Store

	mu     sync.Mutex
	loaded bool
}

// NewOrchestrator creates a new sheet orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	st, err := store.New(&store.Config{
		Repository:  cfg.Repository,
		Clock:       cfg.Clock,
		IDGenerator: cfg.IDGenerator,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create store")
	}

	return &orchestrator{
		repo:  cfg.Repository,
		store: st,
	}, nil
}

// Load reads the persisted document, migrates it and makes it current.
// Unreadable data falls back to the factory defaults with a warning.
// Creation mode is never resumed from saved data.
func (o *orchestrator) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	return o.load(ctx)
}

func (o *orchestrator) load(ctx context.Context) (*LoadOutput, error) {
	saved, err := o.repo.Load(ctx, &document.LoadInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load document")
	}

	output := &LoadOutput{Found: saved.Found}
	doc := entity.Defaults()
	if saved.Found {
		migrated, err := migration.Run([]byte(saved.Data))
		if err != nil {
			slog.WarnContext(ctx, "Saved document unreadable, using defaults", "error", err)
			output.Warning = "Saved data could not be read; factory defaults were loaded"
		} else {
			doc = migrated
		}
	}
	doc.CreationConfig.Active = false

	if err := o.store.Replace(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "failed to store loaded document")
	}
	o.loaded = true

	if output.Warning != "" {
		o.audit(ctx, &store.AppLogInput{
			Message:  output.Warning,
			Type:     entity.LogTypeWarning,
			Category: LogCategoryLoad,
		})
	}

	slog.InfoContext(ctx, "Document loaded",
		"found", saved.Found,
		"version", doc.Version,
		"defaulted", output.Warning != "")

	output.Document = o.store.Document()
	return output, nil
}

// ensureLoaded loads the persisted document before the first change so a
// fresh process never overwrites saved data with defaults
func (o *orchestrator) ensureLoaded(ctx context.Context) error {
	if o.loaded {
		return nil
	}
	_, err := o.load(ctx)
	return err
}

// Get returns the current document with its derived experience figures
func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	doc := o.store.Document()
	return &GetOutput{Document: doc, Derivation: engine.Derive(doc)}, nil
}

// Apply commits one change and records it in the audit trail
func (o *orchestrator) Apply(ctx context.Context, input *ApplyInput) (*ApplyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Mutation == nil {
		return nil, errors.InvalidArgument("mutation is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if err := o.store.Dispatch(ctx, input.Mutation); err != nil {
		return nil, err
	}
	if input.Log != nil {
		o.audit(ctx, input.Log)
	}

	return &ApplyOutput{Document: o.store.Document()}, nil
}

// Import detects an import file and, when an action is given, applies it
// atomically
func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	detection, err := transfer.Detect(input.Data)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	output := &ImportOutput{Detection: detection}
	if input.Action == "" {
		output.Document = o.store.Document()
		return output, nil
	}

	next, err := transfer.Apply(o.store.Document(), detection, input.Action)
	if err != nil {
		return nil, err
	}
	if err := o.store.Replace(ctx, next); err != nil {
		return nil, errors.Wrap(err, "failed to store imported document")
	}
	output.Applied = true

	o.audit(ctx, &store.AppLogInput{
		Message:  fmt.Sprintf("Imported %s file (%s)", detection.Projection, input.Action),
		Category: LogCategoryImport,
	})
	slog.InfoContext(ctx, "Document imported",
		"projection", detection.Projection,
		"action", input.Action,
		"library_entries", len(next.Library))

	output.Document = o.store.Document()
	return output, nil
}

// Export serializes a projection of the current document
func (o *orchestrator) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	data, err := transfer.Export(o.store.Document(), input.Kind)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Data: data}, nil
}

// Reset replaces the document with the factory defaults
func (o *orchestrator) Reset(ctx context.Context, input *ResetInput) (*ResetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.store.Replace(ctx, entity.Defaults()); err != nil {
		return nil, errors.Wrap(err, "failed to reset document")
	}
	o.loaded = true

	o.audit(ctx, &store.AppLogInput{
		Message:  "Sheet reset to factory defaults",
		Category: LogCategoryReset,
	})

	return &ResetOutput{Document: o.store.Document()}, nil
}

// Validate checks the current document against the creation ruleset
func (o *orchestrator) Validate(ctx context.Context, input *ValidateInput) (*ValidateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	doc := o.store.Document()
	output := &ValidateOutput{Report: engine.ValidateCreation(doc)}
	output.CardTier, _ = engine.CardTier(doc)
	return output, nil
}

// StartCreation enters creation mode, optionally switching the accounting mode
func (o *orchestrator) StartCreation(ctx context.Context, input *StartCreationInput) (*StartCreationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	err := o.store.Dispatch(ctx, store.SetCreationConfig(func(cfg *entity.CreationConfig) {
		cfg.Active = true
		if input.Mode != "" {
			cfg.Mode = input.Mode
		}
	}))
	if err != nil {
		return nil, err
	}

	doc := o.store.Document()
	o.audit(ctx, &store.AppLogInput{
		Message:         fmt.Sprintf("Creation started (%s)", doc.CreationConfig.Mode),
		Category:        LogCategoryCreation,
		DeduplicationID: "creation-state",
	})

	return &StartCreationOutput{
		Document: o.store.Document(),
		Report:   engine.ValidateCreation(doc),
	}, nil
}

// FinalizeCreation leaves creation mode. The current ratings become the
// creation baselines so later raises are charged experience from there.
func (o *orchestrator) FinalizeCreation(ctx context.Context, input *FinalizeCreationInput) (*FinalizeCreationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	doc := o.store.Document()
	if !doc.CreationConfig.Active {
		return nil, errors.FailedPrecondition("creation mode is not active")
	}

	report := engine.ValidateCreation(doc)
	if report.HasErrors() && !input.Force {
		return nil, errors.FailedPreconditionf("creation budget has %d error(s)", len(report.Errors())).
			WithMeta("errors", report.Errors())
	}

	if err := o.store.Dispatch(ctx, snapshotBaselines); err != nil {
		return nil, errors.Wrap(err, "failed to finalize creation")
	}

	message := "Creation finalized"
	if report.HasErrors() {
		message = fmt.Sprintf("Creation finalized with %d budget error(s)", len(report.Errors()))
		slog.WarnContext(ctx, "Creation finalized despite budget errors", "errors", report.Errors())
	}
	o.audit(ctx, &store.AppLogInput{
		Message:         message,
		Category:        LogCategoryCreation,
		DeduplicationID: "creation-state",
	})

	return &FinalizeCreationOutput{
		Document: o.store.Document(),
		Report:   report,
	}, nil
}

// snapshotBaselines copies every rating into its creation value and leaves
// creation mode
func snapshotBaselines(doc entity.Document) (entity.Document, error) {
	for category, entries := range doc.Skills {
		for i := range entries {
			entries[i].CreationValue = entries[i].Value
		}
		doc.Skills[category] = entries
	}

	snapshotAttributes(doc.Attributes)
	snapshotAttributes(doc.SecondaryAttributes)

	doc.Counters.Willpower.CreationValue = doc.Counters.Willpower.Value
	doc.Counters.Humanity.CreationValue = doc.Counters.Humanity.Value
	for i := range doc.Counters.Custom {
		doc.Counters.Custom[i].CreationValue = doc.Counters.Custom[i].Value
	}

	doc.CreationConfig.Active = false
	return doc, nil
}

func snapshotAttributes(set map[string][]entity.AttributeEntry) {
	for _, entries := range set {
		for i := range entries {
			entries[i].CreationVal1 = entries[i].Val1
			entries[i].CreationVal2 = entries[i].Val2
			entries[i].CreationVal3 = entries[i].Val3
		}
	}
}

// audit records an entry in the audit trail. A failure here never undoes
// the change it describes.
func (o *orchestrator) audit(ctx context.Context, input *store.AppLogInput) {
	if err := o.store.Log(ctx, input); err != nil {
		slog.WarnContext(ctx, "Failed to record audit entry",
			"category", input.Category,
			"error", err)
	}
}
