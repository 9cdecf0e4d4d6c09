package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/library"
)

// Effects summarizes the trait effects active on a character
type Effects struct {
	XPBonus        float64
	freeRanks      map[string]int
	attributeBonus map[string]int
}

// NewEffects folds a list of resolved effects. Free ranks keep the largest
// value per target; attribute bonuses add up.
func NewEffects(effects []sheet.TraitEffect) Effects {
	e := Effects{
		freeRanks:      make(map[string]int),
		attributeBonus: make(map[string]int),
	}

	for _, effect := range effects {
		switch effect.Type {
		case sheet.EffectXPBonus:
			e.XPBonus += effect.Value
		case sheet.EffectFreeSkillRank:
			key := sheet.NormalizeName(effect.Target)
			if key == "" {
				continue
			}
			if rank := int(effect.Value); rank > e.freeRanks[key] {
				e.freeRanks[key] = rank
			}
		case sheet.EffectAttributeBonus:
			key := sheet.NormalizeName(effect.Target)
			if key == "" {
				continue
			}
			e.attributeBonus[key] += int(effect.Value)
		}
	}

	return e
}

// EffectsFor resolves the effects of every trait on the document
func EffectsFor(doc sheet.Document) Effects {
	return NewEffects(library.ResolveEffects(library.TraitNames(doc), doc.Library))
}

// FreeRanks returns the free rank granted to a skill
func (e Effects) FreeRanks(skill string) int {
	return e.freeRanks[sheet.NormalizeName(skill)]
}

// AttributeBonus returns the bonus granted to an attribute
func (e Effects) AttributeBonus(attribute string) int {
	return e.attributeBonus[sheet.NormalizeName(attribute)]
}
