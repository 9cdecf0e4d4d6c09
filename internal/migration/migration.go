// Package migration upgrades persisted character documents of any historical
// shape to the current schema
package migration

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Run migrates a serialized document. Unreadable sections are replaced by
// their defaults; only input that is not a JSON object is an error.
// Run is idempotent: migrating its own output returns an equal document.
func Run(data []byte) (doc sheet.Document, err error) {
	legacy, err := decode(data)
	if err != nil {
		return sheet.Defaults(), err
	}

	defer func() {
		if r := recover(); r != nil {
			doc = sheet.Defaults()
			err = errors.Internalf("migration panicked: %v", r)
		}
	}()

	for _, s := range steps {
		s.apply(legacy)
	}

	for _, warning := range legacy.warnings {
		slog.Warn("migration dropped unreadable section", "detail", warning)
	}

	return build(legacy), nil
}

// Migrate is the total form of Run: any failure yields the factory defaults
func Migrate(data []byte) sheet.Document {
	doc, err := Run(data)
	if err != nil {
		slog.Warn("migration failed, using defaults", "error", err)
		return sheet.Defaults()
	}
	return doc
}

// MigrateDocument re-runs the migration over an in-memory document. Used when
// a document arrives from a source that may predate the current schema.
func MigrateDocument(doc sheet.Document) (sheet.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return sheet.Defaults(), errors.Wrap(err, "failed to encode document")
	}
	return Run(data)
}

// StepNames lists the migration steps in the order they run
func StepNames() []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.name)
	}
	return names
}

// Describe formats the step list for the command line
func Describe() string {
	out := ""
	for i, name := range StepNames() {
		out += fmt.Sprintf("%2d. %s\n", i+1, name)
	}
	return out
}
