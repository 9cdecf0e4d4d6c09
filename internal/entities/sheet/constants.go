package sheet

// CurrentVersion is the schema version produced by the migration engine
const CurrentVersion = 7

// Fixed list lengths
const (
	TraitSlots      = 28
	ReputationSlots = 7
)

// Rating limits
const (
	DefaultSkillMax   = 5
	DefaultCounterMax = 10
	MaxRank           = 5
)

// DefaultAttributeCost is the XP cost of one attribute point above its baseline
const DefaultAttributeCost = 6

// SkillCategory names a bucket of the skill lists
type SkillCategory string

// Skill categories
const (
	SkillCategoryTalents         SkillCategory = "talents"
	SkillCategorySkills          SkillCategory = "skills"
	SkillCategoryKnowledges      SkillCategory = "knowledges"
	SkillCategorySecondarySkills SkillCategory = "secondarySkills"
	SkillCategoryBackgrounds     SkillCategory = "backgrounds"
)

// SkillCategories returns every category in display order
func SkillCategories() []SkillCategory {
	return []SkillCategory{
		SkillCategoryTalents,
		SkillCategorySkills,
		SkillCategoryKnowledges,
		SkillCategorySecondarySkills,
		SkillCategoryBackgrounds,
	}
}

// IsPrimary reports whether skills of this category use the full triangular cost
func (c SkillCategory) IsPrimary() bool {
	return c != SkillCategorySecondarySkills && c != SkillCategoryBackgrounds
}

// IsKnown reports whether the category is part of the schema
func (c SkillCategory) IsKnown() bool {
	for _, known := range SkillCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// LibraryType is the kind of a library entry
type LibraryType string

// Library entry types
const (
	LibraryTypeAdvantage    LibraryType = "avantage"
	LibraryTypeDisadvantage LibraryType = "desavantage"
)

// EffectType is the kind of a trait effect
type EffectType string

// Effect types
const (
	EffectXPBonus        EffectType = "xp_bonus"
	EffectFreeSkillRank  EffectType = "free_skill_rank"
	EffectAttributeBonus EffectType = "attribute_bonus"
)

// IsKnown reports whether the effect type is supported
func (e EffectType) IsKnown() bool {
	switch e {
	case EffectXPBonus, EffectFreeSkillRank, EffectAttributeBonus:
		return true
	default:
		return false
	}
}

// NeedsTarget reports whether the effect applies to a named skill or attribute
func (e EffectType) NeedsTarget() bool {
	return e == EffectFreeSkillRank || e == EffectAttributeBonus
}

// CreationMode selects how the creation budget is accounted
type CreationMode string

// Creation modes
const (
	CreationModePoints CreationMode = "points"
	CreationModeRanks  CreationMode = "ranks"
)

// Audit log types
const (
	LogTypeInfo    = "info"
	LogTypeWarning = "warning"
	LogTypeError   = "error"
)
