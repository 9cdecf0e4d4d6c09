package engine

import (
	"fmt"
	"sort"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// Derivation holds the experience figures derived from a document
type Derivation struct {
	Spent          float64
	GainedFromLogs float64
	XPBonus        float64
	TotalGained    float64
	Remaining      float64
}

// Derive computes experience spent and remaining
func Derive(doc sheet.Document) Derivation {
	effects := EffectsFor(doc)
	d := Derivation{XPBonus: effects.XPBonus}

	forEachSkill(doc, func(category sheet.SkillCategory, entry sheet.DotEntry) {
		d.Spent += SkillCost(category, entry, effects.FreeRanks(entry.Name))
	})

	costPerPoint := CostPerPoint(doc.CreationConfig)
	forEachAttribute(doc, func(entry sheet.AttributeEntry) {
		d.Spent += AttributeCost(entry, effects.AttributeBonus(entry.Name), costPerPoint)
	})

	for _, log := range doc.XPLogs {
		d.GainedFromLogs += log.Amount
	}

	d.TotalGained = d.GainedFromLogs + d.XPBonus
	d.Remaining = d.TotalGained - d.Spent
	return d
}

// Experience returns the figures in their persisted form
func (d Derivation) Experience() sheet.Experience {
	return sheet.Experience{
		Gained:    GainedLabel(d.GainedFromLogs, d.XPBonus),
		Spent:     d.Spent,
		Remaining: d.Remaining,
	}
}

// GainedLabel renders the log sum, suffixed with the trait bonus when positive
func GainedLabel(fromLogs, bonus float64) string {
	if bonus > 0 {
		return fmt.Sprintf("%s (+%s)", sheet.FormatNumber(fromLogs), sheet.FormatNumber(bonus))
	}
	return sheet.FormatNumber(fromLogs)
}

// Recompute writes the derived experience into the document. It reports
// whether the figures changed; unchanged documents are returned as is.
func Recompute(doc sheet.Document) (sheet.Document, bool) {
	experience := Derive(doc).Experience()
	if experience == doc.Experience {
		return doc, false
	}
	doc.Experience = experience
	return doc, true
}

// forEachSkill visits named skills, known categories first then any other
// category in name order
func forEachSkill(doc sheet.Document, visit func(sheet.SkillCategory, sheet.DotEntry)) {
	categories := sheet.SkillCategories()
	var extra []sheet.SkillCategory
	for category := range doc.Skills {
		if !category.IsKnown() {
			extra = append(extra, category)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	for _, category := range append(categories, extra...) {
		for _, entry := range doc.Skills[category] {
			if entry.IsSpacer() {
				continue
			}
			visit(category, entry)
		}
	}
}

// forEachAttribute visits primary attributes, then secondary attributes when
// they are active, category by category in settings order
func forEachAttribute(doc sheet.Document, visit func(sheet.AttributeEntry)) {
	sets := []map[string][]sheet.AttributeEntry{doc.Attributes}
	if doc.SecondaryAttributesActive {
		sets = append(sets, doc.SecondaryAttributes)
	}

	for _, set := range sets {
		for _, category := range categoryOrder(doc, set) {
			for _, entry := range set[category] {
				visit(entry)
			}
		}
	}
}

// categoryOrder lists the categories of the settings, then any bucket the
// settings do not name
func categoryOrder(doc sheet.Document, set map[string][]sheet.AttributeEntry) []string {
	seen := make(map[string]bool, len(doc.AttributeSettings))
	order := make([]string, 0, len(set))
	for _, category := range doc.AttributeSettings {
		if seen[category.ID] {
			continue
		}
		seen[category.ID] = true
		order = append(order, category.ID)
	}

	var rest []string
	for id := range set {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
