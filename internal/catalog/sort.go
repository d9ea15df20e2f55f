package catalog

import (
	"cmp"
	"slices"

	"github.com/HerbHall/phonedex/pkg/models"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortLatest      SortKey = "latest"
	SortRating      SortKey = "rating"
	SortPriceLow    SortKey = "price-low"
	SortPriceHigh   SortKey = "price-high"
	SortCamera      SortKey = "camera"
	SortPerformance SortKey = "performance"
)

// SortKeys lists every recognised key.
var SortKeys = []SortKey{SortLatest, SortRating, SortPriceLow, SortPriceHigh, SortCamera, SortPerformance}

// Valid reports whether k is a recognised key.
func (k SortKey) Valid() bool {
	return k.compare(models.CurrencyUSD) != nil
}

// Sort returns a stably sorted copy of phones. Price keys read the price in
// currency c. An unknown key returns the copy in its original order.
func Sort(phones []models.Phone, key SortKey, c models.Currency) []models.Phone {
	out := make([]models.Phone, len(phones))
	copy(out, phones)

	if cmpFn := key.compare(c); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

// compare returns the comparator for k, or nil for an unknown key.
func (k SortKey) compare(c models.Currency) func(a, b models.Phone) int {
	switch k {
	case SortLatest:
		return func(a, b models.Phone) int { return b.ReleaseDate.Compare(a.ReleaseDate.Time) }
	case SortRating:
		return descending(func(p models.Phone) float64 { return p.Ratings.Overall })
	case SortPriceLow:
		return func(a, b models.Phone) int { return cmp.Compare(a.Prices.In(c), b.Prices.In(c)) }
	case SortPriceHigh:
		return descending(func(p models.Phone) float64 { return p.Prices.In(c) })
	case SortCamera:
		return descending(func(p models.Phone) float64 { return p.Ratings.Camera })
	case SortPerformance:
		return descending(func(p models.Phone) float64 { return p.Ratings.Performance })
	}
	return nil
}

func descending(field func(models.Phone) float64) func(a, b models.Phone) int {
	return func(a, b models.Phone) int { return cmp.Compare(field(b), field(a)) }
}

// byFeature orders phones by one rating sub-score, highest first.
func byFeature(phones []models.Phone, f models.RatingFeature) []models.Phone {
	out := make([]models.Phone, len(phones))
	copy(out, phones)
	slices.SortStableFunc(out, func(a, b models.Phone) int {
		sa, _ := a.Ratings.Score(f)
		sb, _ := b.Ratings.Score(f)
		return cmp.Compare(sb, sa)
	})
	return out
}
