package store

import (
	"slices"
	"strconv"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/library"
)

// TraitList names one of the fixed-length trait lists
type TraitList string

// Trait lists
const (
	TraitListAdvantages    TraitList = "advantages"
	TraitListDisadvantages TraitList = "disadvantages"
	TraitListReputation    TraitList = "reputation"
)

// TextField names one of the free-text sections
type TextField string

// Free-text sections
const (
	TextFieldNotes     TextField = "notes"
	TextFieldEquipment TextField = "equipment"
	TextFieldHistory   TextField = "history"
)

// SetHeader sets one header field. Unknown keys are added.
func SetHeader(key, value string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		vb := errors.NewValidationBuilder()
		errors.ValidateRequired("key", key, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		if doc.Header == nil {
			doc.Header = sheet.DefaultHeader()
		}
		doc.Header[key] = value
		return doc, nil
	}
}

// SetSkill sets the rating of a named skill
func SetSkill(category sheet.SkillCategory, name string, value int) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		entries := doc.Skills[category]
		i := findSkill(entries, name)
		if i < 0 {
			return doc, errors.NotFoundf("skill %q not found in %s", name, category).
				WithMeta("category", string(category))
		}

		maxValue := entries[i].Max
		if maxValue <= 0 {
			maxValue = sheet.DefaultSkillMax
		}
		vb := errors.NewValidationBuilder()
		errors.ValidateRange("value", value, 0, maxValue, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		entries[i].Value = value
		return doc, nil
	}
}

// AddSkill appends a skill to a category. An empty name adds a spacer row.
func AddSkill(category sheet.SkillCategory, id, name string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		vb := errors.NewValidationBuilder()
		errors.ValidateRequired("category", string(category), vb)
		errors.ValidateRequired("id", id, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		entries := doc.Skills[category]
		if sheet.NormalizeName(name) != "" && findSkill(entries, name) >= 0 {
			return doc, errors.FailedPreconditionf("skill %q already exists in %s", name, category)
		}

		if doc.Skills == nil {
			doc.Skills = make(map[sheet.SkillCategory][]sheet.DotEntry)
		}
		doc.Skills[category] = append(entries, sheet.DotEntry{
			ID:   id,
			Name: name,
			Max:  sheet.DefaultSkillMax,
		})
		return doc, nil
	}
}

// RemoveSkill removes a skill by id
func RemoveSkill(category sheet.SkillCategory, id string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		entries := doc.Skills[category]
		i := slices.IndexFunc(entries, func(e sheet.DotEntry) bool { return e.ID == id })
		if i < 0 {
			return doc, errors.NotFoundf("skill %s not found in %s", id, category)
		}

		doc.Skills[category] = slices.Delete(entries, i, i+1)
		return doc, nil
	}
}

// MoveSkill moves the skill with the given id to position to within its category
func MoveSkill(category sheet.SkillCategory, id string, to int) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		entries := doc.Skills[category]
		from := slices.IndexFunc(entries, func(e sheet.DotEntry) bool { return e.ID == id })
		if from < 0 {
			return doc, errors.NotFoundf("skill %s not found in %s", id, category)
		}

		vb := errors.NewValidationBuilder()
		errors.ValidateRange("position", to, 0, len(entries)-1, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		entry := entries[from]
		entries = slices.Delete(entries, from, from+1)
		doc.Skills[category] = slices.Insert(entries, to, entry)
		return doc, nil
	}
}

// SetAttribute sets component 1, 2 or 3 of a named primary attribute.
// The value is kept as text; an empty value clears the component.
func SetAttribute(category, name string, component int, value string) Mutation {
	return setAttribute(false, category, name, component, value)
}

// SetSecondaryAttribute is SetAttribute for the secondary attribute set
func SetSecondaryAttribute(category, name string, component int, value string) Mutation {
	return setAttribute(true, category, name, component, value)
}

func setAttribute(secondary bool, category, name string, component int, value string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		vb := errors.NewValidationBuilder()
		errors.ValidateRange("component", component, 1, 3, vb)
		if value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				vb.InvalidField("value", "must be a number")
			}
		}
		if err := vb.Build(); err != nil {
			return doc, err
		}

		set := doc.Attributes
		if secondary {
			set = doc.SecondaryAttributes
		}
		entries := set[category]
		i := slices.IndexFunc(entries, func(e sheet.AttributeEntry) bool {
			return sheet.SameName(e.Name, name) || e.ID == name
		})
		if i < 0 {
			return doc, errors.NotFoundf("attribute %q not found in %s", name, category)
		}

		switch component {
		case 1:
			entries[i].Val1 = value
		case 2:
			entries[i].Val2 = value
		case 3:
			entries[i].Val3 = value
		}
		return doc, nil
	}
}

// SetSecondaryActive toggles whether secondary attributes count
func SetSecondaryActive(active bool) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		doc.SecondaryAttributesActive = active
		return doc, nil
	}
}

// SetTrait writes one slot of a trait list
func SetTrait(list TraitList, index int, name, value string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		var slots []sheet.TraitEntry
		switch list {
		case TraitListAdvantages:
			slots = doc.Advantages
		case TraitListDisadvantages:
			slots = doc.Disadvantages
		case TraitListReputation:
			slots = doc.Reputation
		default:
			return doc, errors.InvalidArgumentf("unknown trait list %q", list)
		}

		vb := errors.NewValidationBuilder()
		errors.ValidateRange("index", index, 0, len(slots)-1, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		slots[index] = sheet.TraitEntry{Name: name, Value: value}
		return doc, nil
	}
}

// AddXPLog records an experience grant
func AddXPLog(entry sheet.XPLogEntry) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		vb := errors.NewValidationBuilder()
		errors.ValidateRequired("id", entry.ID, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		if slices.ContainsFunc(doc.XPLogs, func(e sheet.XPLogEntry) bool { return e.ID == entry.ID }) {
			return doc, errors.FailedPreconditionf("experience log %s already exists", entry.ID)
		}

		doc.XPLogs = append(doc.XPLogs, entry)
		return doc, nil
	}
}

// RemoveXPLog deletes an experience grant
func RemoveXPLog(id string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		i := slices.IndexFunc(doc.XPLogs, func(e sheet.XPLogEntry) bool { return e.ID == id })
		if i < 0 {
			return doc, errors.NotFoundf("experience log %s not found", id)
		}

		doc.XPLogs = slices.Delete(doc.XPLogs, i, i+1)
		return doc, nil
	}
}

// UpsertLibraryEntry validates and stores a library entry, replacing one with
// the same id
func UpsertLibraryEntry(entry sheet.LibraryEntry) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		if err := library.ValidateEntry(entry); err != nil {
			return doc, err
		}

		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		doc.Library = library.Upsert(doc.Library, entry)
		return doc, nil
	}
}

// RemoveLibraryEntry deletes a library entry by id
func RemoveLibraryEntry(id string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		lib, err := library.Remove(doc.Library, id)
		if err != nil {
			return doc, err
		}

		doc.Library = lib
		return doc, nil
	}
}

// SetCounter sets the permanent value and current pool of a counter.
// Name matches willpower, humanity or a custom counter.
func SetCounter(name string, value, current int) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		counter := findCounter(&doc, name)
		if counter == nil {
			return doc, errors.NotFoundf("counter %q not found", name)
		}

		maxValue := counter.Max
		if maxValue <= 0 {
			maxValue = sheet.DefaultCounterMax
		}
		vb := errors.NewValidationBuilder()
		errors.ValidateRange("value", value, 0, maxValue, vb)
		errors.ValidateRange("current", current, 0, value, vb)
		if err := vb.Build(); err != nil {
			return doc, err
		}

		counter.Value = value
		counter.Current = current
		return doc, nil
	}
}

// SetCreationConfig edits the creation ruleset. The result is validated
// before it is accepted.
func SetCreationConfig(edit func(cfg *sheet.CreationConfig)) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		if edit == nil {
			return doc, errors.InvalidArgument("edit is required")
		}

		cfg := doc.CreationConfig
		edit(&cfg)
		if err := validateCreationConfig(cfg); err != nil {
			return doc, err
		}

		doc.CreationConfig = cfg
		return doc, nil
	}
}

// SetText replaces one of the free-text sections
func SetText(field TextField, text string) Mutation {
	return func(doc sheet.Document) (sheet.Document, error) {
		switch field {
		case TextFieldNotes:
			doc.Notes = text
		case TextFieldEquipment:
			doc.Equipment = text
		case TextFieldHistory:
			doc.History = text
		default:
			return doc, errors.InvalidArgumentf("unknown text field %q", field)
		}
		return doc, nil
	}
}

// SetNotes replaces the notes section
func SetNotes(text string) Mutation {
	return SetText(TextFieldNotes, text)
}

func validateCreationConfig(cfg sheet.CreationConfig) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("mode", string(cfg.Mode),
		[]string{string(sheet.CreationModePoints), string(sheet.CreationModeRanks)}, vb)
	errors.ValidateNonNegative("startingXP", cfg.StartingXP, vb)
	errors.ValidateNonNegative("attributePoints", float64(cfg.AttributePoints), vb)
	errors.ValidateNonNegative("attributeCost", cfg.AttributeCost, vb)
	errors.ValidateNonNegative("backgroundPoints", float64(cfg.BackgroundPoints), vb)
	errors.ValidateRange("attributeMin", cfg.AttributeMin, 0, sheet.MaxRank, vb)
	errors.ValidateRange("attributeMax", cfg.AttributeMax, cfg.AttributeMin, 10, vb)
	for rank, slots := range cfg.RankSlots {
		errors.ValidateRange("rankSlots", rank, 1, sheet.MaxRank, vb)
		errors.ValidateNonNegative("rankSlots", float64(slots), vb)
	}
	errors.ValidateNonNegative("cardConfig.bestSkillsCount", float64(cfg.CardConfig.BestSkillsCount), vb)
	return vb.Build()
}

func findSkill(entries []sheet.DotEntry, name string) int {
	key := sheet.NormalizeName(name)
	if key == "" {
		return -1
	}
	return slices.IndexFunc(entries, func(e sheet.DotEntry) bool {
		return sheet.NormalizeName(e.Name) == key || e.ID == name
	})
}

func findCounter(doc *sheet.Document, name string) *sheet.DotEntry {
	switch {
	case sheet.SameName(name, doc.Counters.Willpower.Name), sheet.SameName(name, "willpower"):
		return &doc.Counters.Willpower
	case sheet.SameName(name, doc.Counters.Humanity.Name), sheet.SameName(name, "humanity"):
		return &doc.Counters.Humanity
	}
	for i := range doc.Counters.Custom {
		if sheet.SameName(doc.Counters.Custom[i].Name, name) || doc.Counters.Custom[i].ID == name {
			return &doc.Counters.Custom[i]
		}
	}
	return nil
}
