// Package builders provides test data builders for creating test fixtures
package builders

import (
	"strconv"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// DocumentBuilder provides a fluent interface for building test documents
type DocumentBuilder struct {
	doc sheet.Document
}

// NewDocumentBuilder starts from the factory defaults
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{doc: sheet.Defaults()}
}

// WithHeader sets a header field
func (b *DocumentBuilder) WithHeader(key, value string) *DocumentBuilder {
	b.doc.Header[key] = value
	return b
}

// WithSkill sets the rating of a named skill, appending it when missing
func (b *DocumentBuilder) WithSkill(category sheet.SkillCategory, name string, value, creationValue int) *DocumentBuilder {
	entries := b.doc.Skills[category]
	for i := range entries {
		if sheet.SameName(entries[i].Name, name) {
			entries[i].Value = value
			entries[i].CreationValue = creationValue
			return b
		}
	}
	b.doc.Skills[category] = append(entries, sheet.DotEntry{
		ID:            string(category) + "-" + sheet.Slug(name),
		Name:          name,
		Value:         value,
		CreationValue: creationValue,
		Max:           sheet.DefaultSkillMax,
	})
	return b
}

// WithAttribute sets val1 and creationVal1 of a named attribute, appending it
// when missing
func (b *DocumentBuilder) WithAttribute(category, name string, val1, creationVal1 int) *DocumentBuilder {
	entries := b.doc.Attributes[category]
	for i := range entries {
		if sheet.SameName(entries[i].Name, name) {
			entries[i].Val1 = strconv.Itoa(val1)
			entries[i].CreationVal1 = strconv.Itoa(creationVal1)
			return b
		}
	}
	b.doc.Attributes[category] = append(entries, sheet.AttributeEntry{
		ID:           category + "-" + sheet.Slug(name),
		Name:         name,
		Val1:         strconv.Itoa(val1),
		CreationVal1: strconv.Itoa(creationVal1),
	})
	return b
}

// WithSecondaryAttribute sets a secondary attribute and activates secondary
// attributes
func (b *DocumentBuilder) WithSecondaryAttribute(category, name string, val1, creationVal1 int) *DocumentBuilder {
	b.doc.SecondaryAttributesActive = true
	b.doc.SecondaryAttributes[category] = append(b.doc.SecondaryAttributes[category], sheet.AttributeEntry{
		ID:           category + "-secondary-" + sheet.Slug(name),
		Name:         name,
		Val1:         strconv.Itoa(val1),
		CreationVal1: strconv.Itoa(creationVal1),
	})
	return b
}

// WithAdvantage fills the first empty advantage slot
func (b *DocumentBuilder) WithAdvantage(name string) *DocumentBuilder {
	fillSlot(b.doc.Advantages, name)
	return b
}

// WithDisadvantage fills the first empty disadvantage slot
func (b *DocumentBuilder) WithDisadvantage(name string) *DocumentBuilder {
	fillSlot(b.doc.Disadvantages, name)
	return b
}

// WithLibraryEntry appends a library entry
func (b *DocumentBuilder) WithLibraryEntry(entry sheet.LibraryEntry) *DocumentBuilder {
	b.doc.Library = append(b.doc.Library, entry)
	return b
}

// WithXPLog appends an experience grant
func (b *DocumentBuilder) WithXPLog(id string, amount float64) *DocumentBuilder {
	b.doc.XPLogs = append(b.doc.XPLogs, sheet.XPLogEntry{ID: id, Amount: amount, Scenario: "Session " + id})
	return b
}

// WithCreation adjusts the creation ruleset
func (b *DocumentBuilder) WithCreation(update func(cfg *sheet.CreationConfig)) *DocumentBuilder {
	update(&b.doc.CreationConfig)
	return b
}

// Build returns the document
func (b *DocumentBuilder) Build() sheet.Document {
	return b.doc.Clone()
}

func fillSlot(slots []sheet.TraitEntry, name string) {
	for i := range slots {
		if slots[i].IsEmpty() {
			slots[i] = sheet.TraitEntry{Name: name}
			return
		}
	}
}

// FreeRankEntry returns an advantage granting free ranks in a skill
func FreeRankEntry(id, name, skill string, ranks float64) sheet.LibraryEntry {
	return sheet.LibraryEntry{
		ID:   id,
		Type: sheet.LibraryTypeAdvantage,
		Name: name,
		Tags: []string{},
		Effects: []sheet.TraitEffect{
			{ID: id + "-effect", Type: sheet.EffectFreeSkillRank, Value: ranks, Target: skill},
		},
	}
}

// AttributeBonusEntry returns an advantage granting an attribute bonus
func AttributeBonusEntry(id, name, attribute string, bonus float64) sheet.LibraryEntry {
	return sheet.LibraryEntry{
		ID:   id,
		Type: sheet.LibraryTypeAdvantage,
		Name: name,
		Tags: []string{},
		Effects: []sheet.TraitEffect{
			{ID: id + "-effect", Type: sheet.EffectAttributeBonus, Value: bonus, Target: attribute},
		},
	}
}

// XPBonusEntry returns an advantage granting bonus experience
func XPBonusEntry(id, name string, bonus float64) sheet.LibraryEntry {
	return sheet.LibraryEntry{
		ID:   id,
		Type: sheet.LibraryTypeAdvantage,
		Name: name,
		Tags: []string{},
		Effects: []sheet.TraitEffect{
			{ID: id + "-effect", Type: sheet.EffectXPBonus, Value: bonus},
		},
	}
}
