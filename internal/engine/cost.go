// Package engine derives experience figures from a character document and
// checks a character against its creation budget
package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// TriangularCost is the cost of raising a rating from 0 to n
func TriangularCost(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n*(n+1)) / 2
}

// SkillCost returns the experience spent on a skill above its baseline.
//
// Backgrounds cost 2 per point above the creation value. Every other category
// uses the triangular curve from max(creationValue, freeRank), and a rating of
// 0 costs nothing whatever its history. Secondary skills cost half.
func SkillCost(category sheet.SkillCategory, entry sheet.DotEntry, freeRank int) float64 {
	if category == sheet.SkillCategoryBackgrounds {
		return float64(2 * max(0, entry.Value-entry.CreationValue))
	}
	if entry.Value <= 0 {
		return 0
	}

	baseline := max(entry.CreationValue, freeRank)
	cost := max(0, TriangularCost(entry.Value)-TriangularCost(baseline))
	if category == sheet.SkillCategorySecondarySkills {
		cost /= 2
	}
	return cost
}

// AttributeCost returns the experience spent on an attribute. Only val1 is
// costed; val2 and val3 are situational modifiers outside the budget.
func AttributeCost(entry sheet.AttributeEntry, bonus int, costPerPoint float64) float64 {
	return costAbove(sheet.ParseRating(entry.Val1), sheet.ParseRating(entry.CreationVal1)+bonus, costPerPoint)
}

func costAbove(value, baseline int, costPerPoint float64) float64 {
	return float64(max(0, value-baseline)) * costPerPoint
}

// CostPerPoint returns the configured attribute cost, falling back to the
// default when it is not positive
func CostPerPoint(cfg sheet.CreationConfig) float64 {
	if cfg.AttributeCost <= 0 {
		return sheet.DefaultAttributeCost
	}
	return cfg.AttributeCost
}

// AttributeTotal is the displayed rating of an attribute
func AttributeTotal(entry sheet.AttributeEntry, bonus int) int {
	return entry.Total() + bonus
}
