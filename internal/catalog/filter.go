package catalog

import (
	"slices"
	"strings"

	"github.com/HerbHall/phonedex/pkg/models"
)

// Filter returns the phones matching every active predicate in f, in input
// order. The input slice is not modified.
//
// A price range with Min > Max is not rejected; it simply matches nothing.
func Filter(phones []models.Phone, f models.SearchFilters) []models.Phone {
	query := strings.ToLower(strings.TrimSpace(f.SearchQuery))

	result := make([]models.Phone, 0, len(phones))
	for i := range phones {
		p := &phones[i]
		if query != "" && !matchesText(p, query) {
			continue
		}
		if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
			continue
		}
		if !f.PriceRange.Contains(p.Prices.In(f.Currency)) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
			continue
		}
		if f.MinRating > 0 && p.Ratings.Overall < f.MinRating {
			continue
		}
		result = append(result, *p)
	}
	return result
}

// matchesText reports whether the lowercased query is a substring of the
// phone's name, brand or model.
func matchesText(p *models.Phone, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Brand), query) ||
		strings.Contains(strings.ToLower(p.Model), query)
}

// ByPriceRange returns the phones priced within [lo, hi] in currency c.
func ByPriceRange(phones []models.Phone, lo, hi float64, c models.Currency) []models.Phone {
	r := models.PriceRange{Min: lo, Max: hi}
	result := make([]models.Phone, 0, len(phones))
	for i := range phones {
		if r.Contains(phones[i].Prices.In(c)) {
			result = append(result, phones[i])
		}
	}
	return result
}
