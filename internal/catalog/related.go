package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/HerbHall/phonedex/pkg/models"
)

// DefaultRelatedLimit is used when a caller does not ask for a specific count.
const DefaultRelatedLimit = 5

// relatedTo returns the phones sharing subject's brand or category, closest
// usd price first. Ties keep collection order. The subject itself is never
// included.
func relatedTo(phones []models.Phone, subject models.Phone, limit int) []models.Phone {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	candidates := make([]models.Phone, 0, len(phones))
	for i := range phones {
		p := &phones[i]
		if p.ID == subject.ID {
			continue
		}
		if p.Brand == subject.Brand || p.Category == subject.Category {
			candidates = append(candidates, *p)
		}
	}

	distance := func(p models.Phone) float64 { return math.Abs(p.Prices.USD - subject.Prices.USD) }
	slices.SortStableFunc(candidates, func(a, b models.Phone) int {
		return cmp.Compare(distance(a), distance(b))
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
