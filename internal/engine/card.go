package engine

import (
	"math"
	"sort"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// cardRanks are the tiers from lowest to highest
var cardRanks = []string{
	"Twos", "Threes", "Fours", "Fives", "Sixes", "Sevens", "Eights",
	"Nines", "Tens", "Jacks", "Queens", "Kings", "Aces",
}

// CardTier maps the average of the best non-background skill ratings onto a
// pair of playing cards, one rank per increment above baseStart. It reports
// false when the card computation is inactive.
func CardTier(doc sheet.Document) (string, bool) {
	cfg := doc.CreationConfig.CardConfig
	if !cfg.Active || cfg.BestSkillsCount <= 0 {
		return "", false
	}

	var ratings []int
	forEachSkill(doc, func(category sheet.SkillCategory, entry sheet.DotEntry) {
		if category == sheet.SkillCategoryBackgrounds {
			return
		}
		ratings = append(ratings, entry.Value)
	})
	sort.Sort(sort.Reverse(sort.IntSlice(ratings)))

	best := ratings[:min(cfg.BestSkillsCount, len(ratings))]
	var average float64
	if len(best) > 0 {
		var sum int
		for _, rating := range best {
			sum += rating
		}
		average = float64(sum) / float64(len(best))
	}

	index := 0
	if cfg.Increment > 0 {
		index = int(math.Floor((average - cfg.BaseStart) / cfg.Increment))
	} else if average > cfg.BaseStart {
		index = len(cardRanks) - 1
	}
	index = max(0, min(index, len(cardRanks)-1))

	return "Two " + cardRanks[index], true
}
