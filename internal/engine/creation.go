package engine

import (
	"fmt"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// Pool names reported in ranks mode
const (
	PoolAttributes  = "attributes"
	PoolBackgrounds = "backgrounds"
)

// RankPool returns the name of the slot pool for a rank
func RankPool(rank int) string {
	return fmt.Sprintf("rank%d", rank)
}

// PoolUsage reports how much of a creation pool is consumed
type PoolUsage struct {
	Name  string
	Used  float64
	Limit float64
}

// Over reports whether the pool is overspent
func (p PoolUsage) Over() bool {
	return p.Used > p.Limit
}

// Under reports whether the pool still has points left
func (p PoolUsage) Under() bool {
	return p.Used < p.Limit
}

// RangeError reports an attribute outside the configured bounds
type RangeError struct {
	Category  string
	Attribute string
	Value     int
	Min       int
	Max       int
}

func (r RangeError) String() string {
	return fmt.Sprintf("%s is %d, must be between %d and %d", r.Attribute, r.Value, r.Min, r.Max)
}

// CreationReport is the outcome of checking a character against its creation
// ruleset. It never blocks anything; callers decide whether to force.
type CreationReport struct {
	Mode sheet.CreationMode

	// points mode
	StartingXP float64
	Spent      float64
	Remaining  float64

	// ranks mode
	Pools []PoolUsage

	RangeErrors []RangeError
}

// Overspent reports whether a points mode budget went negative
func (r CreationReport) Overspent() bool {
	return r.Mode == sheet.CreationModePoints && r.Remaining < 0
}

// Errors lists every problem in human readable form
func (r CreationReport) Errors() []string {
	var problems []string
	if r.Overspent() {
		problems = append(problems, fmt.Sprintf("overspent by %s XP", sheet.FormatNumber(-r.Remaining)))
	}
	for _, pool := range r.Pools {
		if pool.Over() {
			problems = append(problems, fmt.Sprintf("%s: %s used of %s",
				pool.Name, sheet.FormatNumber(pool.Used), sheet.FormatNumber(pool.Limit)))
		}
	}
	for _, rangeErr := range r.RangeErrors {
		problems = append(problems, rangeErr.String())
	}
	return problems
}

// HasErrors reports whether any problem was found
func (r CreationReport) HasErrors() bool {
	return len(r.Errors()) > 0
}

// Pool returns the usage of a named pool
func (r CreationReport) Pool(name string) (PoolUsage, bool) {
	for _, pool := range r.Pools {
		if pool.Name == name {
			return pool, true
		}
	}
	return PoolUsage{}, false
}

// ValidateCreation checks the document against its creation ruleset in the
// configured mode
func ValidateCreation(doc sheet.Document) CreationReport {
	cfg := doc.CreationConfig
	effects := EffectsFor(doc)

	report := CreationReport{Mode: cfg.Mode}
	switch cfg.Mode {
	case sheet.CreationModeRanks:
		report.Pools = rankPools(doc, cfg)
	default:
		report.Mode = sheet.CreationModePoints
		report.StartingXP = cfg.StartingXP
		report.Spent = pointsSpent(doc, cfg, effects)
		report.Remaining = cfg.StartingXP - report.Spent
	}

	report.RangeErrors = rangeErrors(doc, cfg)
	return report
}

// pointsSpent costs everything creation is building: skills above their free
// ranks and attributes above the configured minimum
func pointsSpent(doc sheet.Document, cfg sheet.CreationConfig, effects Effects) float64 {
	var spent float64

	forEachSkill(doc, func(category sheet.SkillCategory, entry sheet.DotEntry) {
		entry.CreationValue = 0
		spent += SkillCost(category, entry, effects.FreeRanks(entry.Name))
	})

	costPerPoint := CostPerPoint(cfg)
	forEachAttribute(doc, func(entry sheet.AttributeEntry) {
		baseline := cfg.AttributeMin + effects.AttributeBonus(entry.Name)
		spent += costAbove(sheet.ParseRating(entry.Val1), baseline, costPerPoint)
	})

	return spent
}

func rankPools(doc sheet.Document, cfg sheet.CreationConfig) []PoolUsage {
	ranks := make([]PoolUsage, sheet.MaxRank)
	for i := range ranks {
		ranks[i] = PoolUsage{Name: RankPool(i + 1), Limit: float64(cfg.RankSlots[i+1])}
	}
	backgrounds := PoolUsage{Name: PoolBackgrounds, Limit: float64(cfg.BackgroundPoints)}

	forEachSkill(doc, func(category sheet.SkillCategory, entry sheet.DotEntry) {
		if entry.Value <= 0 {
			return
		}
		if category == sheet.SkillCategoryBackgrounds {
			backgrounds.Used += float64(entry.Value)
			return
		}
		slot := 1.0
		if category == sheet.SkillCategorySecondarySkills {
			slot = 0.5
		}
		rank := min(entry.Value, sheet.MaxRank)
		ranks[rank-1].Used += slot
	})

	attributes := PoolUsage{Name: PoolAttributes, Limit: float64(cfg.AttributePoints)}
	for _, category := range categoryOrder(doc, doc.Attributes) {
		for _, entry := range doc.Attributes[category] {
			attributes.Used += float64(sheet.ParseRating(entry.Val1))
		}
	}

	return append(ranks, attributes, backgrounds)
}

// rangeErrors checks every named attribute against the bounds. Secondary
// attributes are checked only while they are active.
func rangeErrors(doc sheet.Document, cfg sheet.CreationConfig) []RangeError {
	out := attributeRangeErrors(doc, doc.Attributes, cfg)
	if doc.SecondaryAttributesActive {
		out = append(out, attributeRangeErrors(doc, doc.SecondaryAttributes, cfg)...)
	}
	return out
}

func attributeRangeErrors(doc sheet.Document, set map[string][]sheet.AttributeEntry, cfg sheet.CreationConfig) []RangeError {
	var out []RangeError
	for _, category := range categoryOrder(doc, set) {
		for _, entry := range set[category] {
			if sheet.NormalizeName(entry.Name) == "" {
				continue
			}
			value := sheet.ParseRating(entry.Val1)
			if value < cfg.AttributeMin || value > cfg.AttributeMax {
				out = append(out, RangeError{
					Category:  category,
					Attribute: entry.Name,
					Value:     value,
					Min:       cfg.AttributeMin,
					Max:       cfg.AttributeMax,
				})
			}
		}
	}
	return out
}
