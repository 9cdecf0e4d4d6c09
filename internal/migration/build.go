package migration

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// build converts a fully migrated legacy document into the current schema.
// Every collection of the result is non-nil.
func build(d *legacyDocument) sheet.Document {
	doc := sheet.Document{
		Version:                   sheet.CurrentVersion,
		Header:                    make(map[string]string, len(d.header)),
		AttributeSettings:         make([]sheet.AttributeCategory, 0, len(d.attributeSettings)),
		Attributes:                buildAttributeSet(d.attributes),
		SecondaryAttributesActive: d.secondaryActive != nil && *d.secondaryActive,
		SecondaryAttributes:       buildAttributeSet(d.secondaryAttributes),
		Skills:                    make(map[sheet.SkillCategory][]sheet.DotEntry, len(d.skills)),
		Counters: sheet.Counters{
			Willpower: buildDot(d.counters.willpower),
			Humanity:  buildDot(d.counters.humanity),
			Custom:    buildDots(d.counters.custom),
		},
		Advantages:     d.advantages,
		Disadvantages:  d.disadvantages,
		Reputation:     d.reputation,
		Notes:          *d.notes,
		Equipment:      *d.equipment,
		History:        *d.history,
		Library:        make([]sheet.LibraryEntry, 0, len(d.library)),
		CreationConfig: buildCreationConfig(d.creationConfig),
		XPLogs:         make([]sheet.XPLogEntry, 0, len(d.xpLogs)),
		AppLogs:        make([]sheet.AppLogEntry, 0, len(d.appLogs)),
		Experience: sheet.Experience{
			Gained:    string(d.experience.Gained),
			Spent:     float64(d.experience.Spent),
			Remaining: float64(d.experience.Remaining),
		},
	}

	for key, value := range d.header {
		doc.Header[key] = string(value)
	}
	for _, category := range d.attributeSettings {
		doc.AttributeSettings = append(doc.AttributeSettings, sheet.AttributeCategory{
			ID:    string(category.ID),
			Label: string(category.Label),
		})
	}
	for category, entries := range d.skills {
		doc.Skills[sheet.SkillCategory(category)] = buildDots(entries)
	}
	for _, entry := range d.library {
		doc.Library = append(doc.Library, buildLibraryEntry(entry))
	}
	for _, log := range d.xpLogs {
		doc.XPLogs = append(doc.XPLogs, sheet.XPLogEntry{
			ID:               text(log.ID),
			Date:             string(log.Date),
			Scenario:         string(log.Scenario),
			SpendingLocation: string(log.SpendingLocation),
			Amount:           float64(log.Amount),
			MJ:               string(log.MJ),
		})
	}
	for _, log := range d.appLogs {
		doc.AppLogs = append(doc.AppLogs, sheet.AppLogEntry{
			ID:              text(log.ID),
			Timestamp:       int64(log.Timestamp),
			Message:         string(log.Message),
			Type:            string(log.Type),
			Category:        string(log.Category),
			DeduplicationID: string(log.DeduplicationID),
		})
	}

	if doc.Experience.Gained == "" {
		doc.Experience.Gained = sheet.DefaultExperience().Gained
	}

	return doc
}

func buildAttributeSet(set map[string][]legacyAttribute) map[string][]sheet.AttributeEntry {
	out := make(map[string][]sheet.AttributeEntry, len(set))
	for category, entries := range set {
		attrs := make([]sheet.AttributeEntry, 0, len(entries))
		for _, entry := range entries {
			attrs = append(attrs, sheet.AttributeEntry{
				ID:           text(entry.ID),
				Name:         string(entry.Name),
				Val1:         text(entry.Val1),
				Val2:         text(entry.Val2),
				Val3:         text(entry.Val3),
				CreationVal1: text(entry.CreationVal1),
				CreationVal2: text(entry.CreationVal2),
				CreationVal3: text(entry.CreationVal3),
			})
		}
		out[category] = attrs
	}
	return out
}

func buildDots(dots []legacyDot) []sheet.DotEntry {
	out := make([]sheet.DotEntry, 0, len(dots))
	for _, dot := range dots {
		out = append(out, buildDot(dot))
	}
	return out
}

func buildDot(dot legacyDot) sheet.DotEntry {
	return sheet.DotEntry{
		ID:            text(dot.ID),
		Name:          string(dot.Name),
		Value:         number(dot.Value),
		CreationValue: number(dot.CreationValue),
		Current:       number(dot.Current),
		Max:           number(dot.Max),
	}
}

func buildLibraryEntry(entry legacyLibraryEntry) sheet.LibraryEntry {
	out := sheet.LibraryEntry{
		ID:          text(entry.ID),
		Type:        sheet.LibraryType(entry.Type),
		Name:        string(entry.Name),
		Cost:        string(entry.Cost),
		Description: string(entry.Description),
		Tags:        []string(entry.Tags),
		Effects:     make([]sheet.TraitEffect, 0, len(entry.Effects)),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	for _, effect := range entry.Effects {
		out.Effects = append(out.Effects, sheet.TraitEffect{
			ID:     text(effect.ID),
			Type:   sheet.EffectType(strings.TrimSpace(string(effect.Type))),
			Value:  float64(effect.Value),
			Target: string(effect.Target),
		})
	}
	return out
}

// buildCreationConfig starts from the factory ruleset and overrides every
// field the document carries
func buildCreationConfig(c *legacyCreationConfig) sheet.CreationConfig {
	out := sheet.DefaultCreationConfig()
	if c == nil {
		return out
	}

	if c.Active != nil {
		out.Active = *c.Active
	}
	if c.Mode != nil {
		switch mode := sheet.CreationMode(strings.TrimSpace(string(*c.Mode))); mode {
		case sheet.CreationModePoints, sheet.CreationModeRanks:
			out.Mode = mode
		}
	}
	if c.StartingXP != nil {
		out.StartingXP = float64(*c.StartingXP)
	}
	if c.AttributePoints != nil {
		out.AttributePoints = int(*c.AttributePoints)
	}
	if c.AttributeCost != nil {
		out.AttributeCost = float64(*c.AttributeCost)
	}
	if c.AttributeMin != nil {
		out.AttributeMin = int(*c.AttributeMin)
	}
	if c.AttributeMax != nil {
		out.AttributeMax = int(*c.AttributeMax)
	}
	if c.BackgroundPoints != nil {
		out.BackgroundPoints = int(*c.BackgroundPoints)
	}
	for key, slots := range c.RankSlots {
		rank, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || rank < 1 || rank > sheet.MaxRank {
			continue
		}
		out.RankSlots[rank] = int(slots)
	}
	if card := c.CardConfig; card != nil {
		if card.Active != nil {
			out.CardConfig.Active = *card.Active
		}
		if card.BestSkillsCount != nil {
			out.CardConfig.BestSkillsCount = int(*card.BestSkillsCount)
		}
		if card.Increment != nil {
			out.CardConfig.Increment = float64(*card.Increment)
		}
		if card.BaseStart != nil {
			out.CardConfig.BaseStart = float64(*card.BaseStart)
		}
	}
	return out
}

func text(f *flexText) string {
	if f == nil {
		return ""
	}
	return string(*f)
}

func number(f *flexInt) int {
	if f == nil {
		return 0
	}
	return int(*f)
}

// dotFrom converts a current entry back to the legacy form, used when steps
// inject defaults
func dotFrom(e sheet.DotEntry) legacyDot {
	return legacyDot{
		ID:            textPtr(e.ID),
		Name:          flexText(e.Name),
		Value:         intPtr(e.Value),
		CreationValue: intPtr(e.CreationValue),
		Current:       intPtr(e.Current),
		Max:           intPtr(e.Max),
	}
}

func dotsFrom(entries []sheet.DotEntry) []legacyDot {
	out := make([]legacyDot, 0, len(entries))
	for _, e := range entries {
		out = append(out, dotFrom(e))
	}
	return out
}

func categoriesFrom(categories []sheet.AttributeCategory) []legacyCategory {
	out := make([]legacyCategory, 0, len(categories))
	for _, c := range categories {
		out = append(out, legacyCategory{ID: flexText(c.ID), Label: flexText(c.Label)})
	}
	return out
}

func attributesFrom(entries []sheet.AttributeEntry) []legacyAttribute {
	out := make([]legacyAttribute, 0, len(entries))
	for _, e := range entries {
		out = append(out, legacyAttribute{
			ID:           textPtr(e.ID),
			Name:         flexText(e.Name),
			Val1:         textPtr(e.Val1),
			Val2:         textPtr(e.Val2),
			Val3:         textPtr(e.Val3),
			CreationVal1: textPtr(e.CreationVal1),
			CreationVal2: textPtr(e.CreationVal2),
			CreationVal3: textPtr(e.CreationVal3),
		})
	}
	return out
}

func attributeSetFrom(set map[string][]sheet.AttributeEntry) map[string][]legacyAttribute {
	out := make(map[string][]legacyAttribute, len(set))
	for category, entries := range set {
		out[category] = attributesFrom(entries)
	}
	return out
}
