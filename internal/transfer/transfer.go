// Package transfer exports documents as shareable files and imports them
// back. Imports are detected first and applied only once an action is chosen,
// so a rejected file never touches the current document.
package transfer

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/library"
	"github.com/KirkDiggler/rpg-sheet/internal/migration"
)

// Kind is an export projection
type Kind string

// Export kinds
const (
	KindFull    Kind = "full"
	KindSystem  Kind = "system"
	KindLibrary Kind = "library"
)

// Kinds lists the export projections
func Kinds() []Kind {
	return []Kind{KindFull, KindSystem, KindLibrary}
}

// Projection is the shape an imported file was detected as
type Projection string

// Detected projections
const (
	ProjectionStructure Projection = "structure"
	ProjectionLibrary   Projection = "library"
)

// Action is a way of applying an imported file
type Action string

// Import actions
const (
	ActionReplaceAll                  Action = "replace_all"
	ActionReplaceStructureKeepLibrary Action = "replace_structure_keep_library"
	ActionMergeLibrary                Action = "merge_library"
	ActionReplaceLibrary              Action = "replace_library"
)

// structuralKeys mark a file that carries a character or template. Two of
// them are required so a stray header alone is not mistaken for a sheet.
var structuralKeys = []string{
	"header",
	"skills",
	"attributes",
	"attributeSettings",
	"counters",
	"creationConfig",
	"version",
}

// libraryFile is the library projection on disk
type libraryFile struct {
	Library []sheet.LibraryEntry `json:"library"`
}

// Detection is a parsed import file waiting for an action
type Detection struct {
	Projection Projection
	Actions    []Action
	data       []byte
}

// Offers reports whether the action applies to the detected file
func (d Detection) Offers(action Action) bool {
	for _, a := range d.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Export serializes a projection of the document as an indented JSON file
func Export(doc sheet.Document, kind Kind) ([]byte, error) {
	var v any
	switch kind {
	case KindFull:
		v = doc
	case KindSystem:
		v = SystemTemplate(doc)
	case KindLibrary:
		lib := sheet.CloneLibrary(doc.Library)
		if lib == nil {
			lib = []sheet.LibraryEntry{}
		}
		v = libraryFile{Library: lib}
	default:
		return nil, errors.InvalidArgumentf("unknown export kind %q", kind)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s export", kind)
	}
	return data, nil
}

// SystemTemplate clears every per-character value and keeps the structure:
// categories, skill names, counters, creation config and library
func SystemTemplate(doc sheet.Document) sheet.Document {
	out := doc.Clone()

	out.Header = sheet.DefaultHeader()
	for key := range doc.Header {
		out.Header[key] = ""
	}

	for category, entries := range out.Skills {
		for i := range entries {
			entries[i].Value = 0
			entries[i].CreationValue = 0
			entries[i].Current = 0
		}
		out.Skills[category] = entries
	}

	clearAttributes(out.Attributes)
	clearAttributes(out.SecondaryAttributes)

	clearCounter(&out.Counters.Willpower)
	clearCounter(&out.Counters.Humanity)
	for i := range out.Counters.Custom {
		clearCounter(&out.Counters.Custom[i])
	}

	out.Advantages = sheet.EmptyTraits(len(doc.Advantages))
	out.Disadvantages = sheet.EmptyTraits(len(doc.Disadvantages))
	out.Reputation = sheet.EmptyTraits(len(doc.Reputation))
	out.Notes = ""
	out.Equipment = ""
	out.History = ""
	out.XPLogs = []sheet.XPLogEntry{}
	out.AppLogs = []sheet.AppLogEntry{}
	out.Experience = sheet.DefaultExperience()
	out.CreationConfig.Active = false

	return out
}

func clearAttributes(set map[string][]sheet.AttributeEntry) {
	for _, entries := range set {
		for i := range entries {
			entries[i].Val1, entries[i].Val2, entries[i].Val3 = "", "", ""
			entries[i].CreationVal1, entries[i].CreationVal2, entries[i].CreationVal3 = "", "", ""
		}
	}
}

func clearCounter(c *sheet.DotEntry) {
	c.Value = 0
	c.CreationValue = 0
	c.Current = 0
}

// Detect classifies an import file. Files that are not JSON objects, or
// carry neither structure nor a library, are rejected.
func Detect(data []byte) (Detection, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return Detection{}, errors.WrapWithCode(err, errors.CodeInvalidArgument, "import file is not a JSON object")
	}
	if keys == nil {
		return Detection{}, errors.InvalidArgument("import file is not a JSON object")
	}

	present := 0
	for _, key := range structuralKeys {
		if _, ok := keys[key]; ok {
			present++
		}
	}

	switch {
	case present >= 2:
		return Detection{
			Projection: ProjectionStructure,
			Actions:    []Action{ActionReplaceAll, ActionReplaceStructureKeepLibrary},
			data:       data,
		}, nil
	case hasKey(keys, "library"):
		if _, err := libraryItems(keys["library"]); err != nil {
			return Detection{}, err
		}
		return Detection{
			Projection: ProjectionLibrary,
			Actions:    []Action{ActionMergeLibrary, ActionReplaceLibrary},
			data:       data,
		}, nil
	default:
		return Detection{}, errors.InvalidArgument("import file has neither a character structure nor a library")
	}
}

// Apply builds the document resulting from importing the detected file into
// current. Creation mode is always left inactive.
func Apply(current sheet.Document, detection Detection, action Action) (sheet.Document, error) {
	if !detection.Offers(action) {
		return current, errors.FailedPreconditionf("action %q is not available for a %s file", action, detection.Projection).
			WithMeta("projection", string(detection.Projection))
	}

	var next sheet.Document
	switch action {
	case ActionReplaceAll, ActionReplaceStructureKeepLibrary:
		doc, err := migration.Run(detection.data)
		if err != nil {
			return current, errors.Wrap(err, "failed to migrate imported document")
		}
		next = doc
		if action == ActionReplaceStructureKeepLibrary {
			next.Library = sheet.CloneLibrary(current.Library)
			if next.Library == nil {
				next.Library = []sheet.LibraryEntry{}
			}
		}
	case ActionMergeLibrary, ActionReplaceLibrary:
		incoming, err := importedLibrary(detection.data)
		if err != nil {
			return current, err
		}
		next = current.Clone()
		if action == ActionMergeLibrary {
			next.Library = library.Merge(current.Library, incoming)
		} else {
			next.Library = incoming
		}
	}

	next.CreationConfig.Active = false
	return next, nil
}

// importedLibrary normalizes library entries through the migration so old
// type names and missing ids are upgraded like any persisted library. Entries
// the migration cannot read fail the import instead of being dropped.
func importedLibrary(data []byte) ([]sheet.LibraryEntry, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "import file is not a JSON object")
	}

	items, err := libraryItems(keys["library"])
	if err != nil {
		return nil, err
	}

	wrapped, err := json.Marshal(map[string]json.RawMessage{"library": keys["library"]})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read imported library")
	}

	doc, err := migration.Run(wrapped)
	if err != nil {
		return nil, errors.Wrap(err, "failed to migrate imported library")
	}
	if len(doc.Library) != len(items) {
		return nil, errors.InvalidArgumentf("import file library has unreadable entries: %d of %d read",
			len(doc.Library), len(items))
	}
	return doc.Library, nil
}

// libraryItems returns the entries of a library section, which must be a list
func libraryItems(raw json.RawMessage) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, errors.InvalidArgument("import file library is not a list")
	}
	return items, nil
}

func hasKey(keys map[string]json.RawMessage, key string) bool {
	_, ok := keys[key]
	return ok
}
