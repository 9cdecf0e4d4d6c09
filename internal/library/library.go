// Package library resolves character traits against the reusable trait
// catalogue and merges catalogues from imported files
package library

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// TraitNames returns the non-empty trait names of a document, advantages
// first then disadvantages, in list order
func TraitNames(doc sheet.Document) []string {
	names := make([]string, 0, len(doc.Advantages)+len(doc.Disadvantages))
	for _, list := range [][]sheet.TraitEntry{doc.Advantages, doc.Disadvantages} {
		for _, trait := range list {
			if trait.IsEmpty() {
				continue
			}
			names = append(names, trait.Name)
		}
	}
	return names
}

// Find returns the first entry whose name matches ignoring case and
// surrounding whitespace
func Find(name string, lib []sheet.LibraryEntry) (sheet.LibraryEntry, bool) {
	key := sheet.NormalizeName(name)
	if key == "" {
		return sheet.LibraryEntry{}, false
	}
	for _, entry := range lib {
		if sheet.NormalizeName(entry.Name) == key {
			return entry, true
		}
	}
	return sheet.LibraryEntry{}, false
}

// ResolveEffects returns the effects of every library entry matched by a trait
// name. Names without a matching entry are skipped. A name listed twice
// contributes its effects twice.
func ResolveEffects(traitNames []string, lib []sheet.LibraryEntry) []sheet.TraitEffect {
	index := make(map[string]sheet.LibraryEntry, len(lib))
	for _, entry := range lib {
		key := sheet.NormalizeName(entry.Name)
		if _, seen := index[key]; key == "" || seen {
			continue
		}
		index[key] = entry
	}

	var effects []sheet.TraitEffect
	for _, name := range traitNames {
		entry, ok := index[sheet.NormalizeName(name)]
		if !ok {
			continue
		}
		effects = append(effects, entry.Effects...)
	}
	return effects
}

// Merge overwrites current entries that share an id with an incoming entry and
// appends the remaining incoming entries in their original order
func Merge(current, incoming []sheet.LibraryEntry) []sheet.LibraryEntry {
	merged := sheet.CloneLibrary(current)
	if merged == nil {
		merged = []sheet.LibraryEntry{}
	}

	positions := make(map[string]int, len(merged))
	for i, entry := range merged {
		if entry.ID != "" {
			positions[entry.ID] = i
		}
	}

	for _, entry := range sheet.CloneLibrary(incoming) {
		if i, ok := positions[entry.ID]; ok && entry.ID != "" {
			merged[i] = entry
			continue
		}
		merged = append(merged, entry)
		if entry.ID != "" {
			positions[entry.ID] = len(merged) - 1
		}
	}
	return merged
}

// Upsert replaces the entry with the same id or appends a new one
func Upsert(lib []sheet.LibraryEntry, entry sheet.LibraryEntry) []sheet.LibraryEntry {
	return Merge(lib, []sheet.LibraryEntry{entry})
}

// Remove deletes the entry with the given id
func Remove(lib []sheet.LibraryEntry, id string) ([]sheet.LibraryEntry, error) {
	i := slices.IndexFunc(lib, func(entry sheet.LibraryEntry) bool { return entry.ID == id })
	if i < 0 {
		return nil, errors.NotFoundf("library entry %s not found", id).WithMeta("entry_id", id)
	}
	out := sheet.CloneLibrary(lib)
	return slices.Delete(out, i, i+1), nil
}

// ValidateEntry checks an entry entered by the user
func ValidateEntry(entry sheet.LibraryEntry) error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("id", entry.ID, vb)
	errors.ValidateRequired("name", entry.Name, vb)
	errors.ValidateEnum("type", string(entry.Type), []string{
		string(sheet.LibraryTypeAdvantage),
		string(sheet.LibraryTypeDisadvantage),
	}, vb)

	for i, effect := range entry.Effects {
		field := fmt.Sprintf("effects[%d]", i)
		if !effect.Type.IsKnown() {
			vb.Fieldf(field+".type", "unknown effect type %q", effect.Type)
			continue
		}
		if effect.Type.NeedsTarget() && strings.TrimSpace(effect.Target) == "" {
			vb.RequiredField(field + ".target")
		}
	}

	return vb.Build()
}
