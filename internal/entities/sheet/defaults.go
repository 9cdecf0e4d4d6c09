package sheet

import (
	"fmt"
	"strings"
)

// Header keys present on every document
var HeaderKeys = []string{
	"name",
	"player",
	"chronicle",
	"concept",
	"age",
	"nature",
	"demeanor",
}

var defaultAttributes = []struct {
	category AttributeCategory
	names    []string
}{
	{AttributeCategory{ID: "physical", Label: "Physical"}, []string{"Strength", "Dexterity", "Stamina"}},
	{AttributeCategory{ID: "social", Label: "Social"}, []string{"Charisma", "Manipulation", "Appearance"}},
	{AttributeCategory{ID: "mental", Label: "Mental"}, []string{"Perception", "Intelligence", "Wits"}},
}

var defaultSkills = map[SkillCategory][]string{
	SkillCategoryTalents: {
		"Alertness", "Athletics", "Brawl", "Dodge", "Empathy",
		"Expression", "Intimidation", "Leadership", "Streetwise", "Subterfuge",
	},
	SkillCategorySkills: {
		"Animal Ken", "Crafts", "Drive", "Etiquette", "Firearms",
		"Melee", "Performance", "Security", "Stealth", "Survival",
	},
	SkillCategoryKnowledges: {
		"Academics", "Computer", "Finance", "Investigation", "Law",
		"Linguistics", "Medicine", "Occult", "Politics", "Science",
	},
	SkillCategorySecondarySkills: {"Archery", "Meditation"},
	SkillCategoryBackgrounds:     {"Allies", "Contacts", "Fame", "Resources"},
}

// Defaults returns the factory-default document
func Defaults() Document {
	doc := Document{
		Version:             CurrentVersion,
		Header:              DefaultHeader(),
		AttributeSettings:   make([]AttributeCategory, 0, len(defaultAttributes)),
		Attributes:          make(map[string][]AttributeEntry, len(defaultAttributes)),
		SecondaryAttributes: make(map[string][]AttributeEntry, len(defaultAttributes)),
		Skills:              DefaultSkills(),
		Counters:            DefaultCounters(),
		Advantages:          EmptyTraits(TraitSlots),
		Disadvantages:       EmptyTraits(TraitSlots),
		Reputation:          EmptyTraits(ReputationSlots),
		Library:             []LibraryEntry{},
		CreationConfig:      DefaultCreationConfig(),
		XPLogs:              []XPLogEntry{},
		AppLogs:             []AppLogEntry{},
		Experience:          DefaultExperience(),
	}

	for _, group := range defaultAttributes {
		doc.AttributeSettings = append(doc.AttributeSettings, group.category)
		entries := make([]AttributeEntry, 0, len(group.names))
		for _, name := range group.names {
			entries = append(entries, AttributeEntry{
				ID:           group.category.ID + "-" + Slug(name),
				Name:         name,
				Val1:         "1",
				CreationVal1: "1",
			})
		}
		doc.Attributes[group.category.ID] = entries
		doc.SecondaryAttributes[group.category.ID] = PlaceholderAttributes(group.category.ID)
	}

	return doc
}

// DefaultHeader returns a header with every known key blank
func DefaultHeader() map[string]string {
	header := make(map[string]string, len(HeaderKeys))
	for _, key := range HeaderKeys {
		header[key] = ""
	}
	return header
}

// DefaultSkills returns the factory skill lists
func DefaultSkills() map[SkillCategory][]DotEntry {
	skills := make(map[SkillCategory][]DotEntry, len(defaultSkills))
	for _, category := range SkillCategories() {
		names := defaultSkills[category]
		entries := make([]DotEntry, 0, len(names))
		for _, name := range names {
			entries = append(entries, DotEntry{
				ID:   string(category) + "-" + Slug(name),
				Name: name,
				Max:  DefaultSkillMax,
			})
		}
		skills[category] = entries
	}
	return skills
}

// DefaultCounters returns the factory counters
func DefaultCounters() Counters {
	return Counters{
		Willpower: DotEntry{
			ID:            "counter-willpower",
			Name:          "Willpower",
			Value:         3,
			CreationValue: 3,
			Current:       3,
			Max:           DefaultCounterMax,
		},
		Humanity: DotEntry{
			ID:            "counter-humanity",
			Name:          "Humanity",
			Value:         7,
			CreationValue: 7,
			Current:       7,
			Max:           DefaultCounterMax,
		},
		Custom: []DotEntry{},
	}
}

// DefaultCreationConfig returns the factory creation ruleset
func DefaultCreationConfig() CreationConfig {
	return CreationConfig{
		Active:           false,
		Mode:             CreationModePoints,
		StartingXP:       120,
		AttributePoints:  24,
		AttributeCost:    DefaultAttributeCost,
		AttributeMin:     1,
		AttributeMax:     5,
		BackgroundPoints: 5,
		RankSlots:        DefaultRankSlots(),
		CardConfig: CardConfig{
			Active:          false,
			BestSkillsCount: 3,
			Increment:       0.25,
			BaseStart:       1,
		},
	}
}

// DefaultRankSlots returns how many skills may reach each rank in ranks mode
func DefaultRankSlots() map[int]int {
	return map[int]int{1: 4, 2: 3, 3: 2, 4: 1, 5: 0}
}

// DefaultExperience returns the experience figures of an empty ledger
func DefaultExperience() Experience {
	return Experience{Gained: "0"}
}

// EmptyTraits returns n empty trait slots
func EmptyTraits(n int) []TraitEntry {
	return make([]TraitEntry, n)
}

// PlaceholderAttributes returns the two blank secondary attributes synthesized
// for a category
func PlaceholderAttributes(categoryID string) []AttributeEntry {
	return []AttributeEntry{
		{ID: fmt.Sprintf("%s-secondary-1", categoryID)},
		{ID: fmt.Sprintf("%s-secondary-2", categoryID)},
	}
}

// Slug lowercases a display name and joins its words with dashes
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
