package sheet

import (
	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
	"github.com/KirkDiggler/rpg-sheet/internal/transfer"
)

// LoadInput defines the request for loading the persisted document
type LoadInput struct{}

// LoadOutput defines the response for loading the persisted document
type LoadOutput struct {
	Document entity.Document
	// Found is false when nothing was saved yet
	Found bool
	// Warning is set when saved data was unreadable and defaults were used
	Warning string
}

// GetInput defines the request for reading the current document
type GetInput struct{}

// GetOutput defines the response for reading the current document
type GetOutput struct {
	Document   entity.Document
	Derivation engine.Derivation
}

// ApplyInput defines a change to the document
type ApplyInput struct {
	Mutation store.Mutation
	// Log is recorded in the audit trail after the change is committed
	Log *store.AppLogInput
}

// ApplyOutput defines the response for a change
type ApplyOutput struct {
	Document entity.Document
}

// ImportInput defines the request for importing a file. Without an action
// the file is only detected.
type ImportInput struct {
	Data   []byte
	Action transfer.Action
}

// ImportOutput defines the response for an import
type ImportOutput struct {
	Detection transfer.Detection
	Applied   bool
	Document  entity.Document
}

// ExportInput defines the request for exporting a projection
type ExportInput struct {
	Kind transfer.Kind
}

// ExportOutput defines the response for an export
type ExportOutput struct {
	Data []byte
}

// ResetInput defines the request for restoring factory defaults
type ResetInput struct{}

// ResetOutput defines the response for a reset
type ResetOutput struct {
	Document entity.Document
}

// ValidateInput defines the request for checking the creation budget
type ValidateInput struct{}

// ValidateOutput defines the response for checking the creation budget
type ValidateOutput struct {
	Report engine.CreationReport
	// CardTier is empty unless the card tier is enabled
	CardTier string
}

// StartCreationInput defines the request for entering creation mode
type StartCreationInput struct {
	// Mode optionally switches the accounting mode
	Mode entity.CreationMode
}

// StartCreationOutput defines the response for entering creation mode
type StartCreationOutput struct {
	Document entity.Document
	Report   engine.CreationReport
}

// FinalizeCreationInput defines the request for leaving creation mode
type FinalizeCreationInput struct {
	// Force finalizes even when the budget report has errors
	Force bool
}

// FinalizeCreationOutput defines the response for leaving creation mode
type FinalizeCreationOutput struct {
	Document entity.Document
	Report   engine.CreationReport
}
