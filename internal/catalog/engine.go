// Package catalog provides the query engine that filters, sorts, summarises
// and recommends phones from the read-only catalog.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	pkgcatalog "github.com/HerbHall/phonedex/pkg/catalog"
	"github.com/HerbHall/phonedex/pkg/models"
)

// ErrUnknownFeature is returned for a rating feature that Ratings does not have.
var ErrUnknownFeature = errors.New("unknown rating feature")

const (
	defaultListLimit  = 10
	bestCategoryLimit = 5
	bestFeatureLimit  = 10
)

// Engine answers catalog queries. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	cat *pkgcatalog.Catalog
}

// NewEngine creates a new query engine backed by the given catalog.
func NewEngine(cat *pkgcatalog.Catalog) *Engine {
	return &Engine{cat: cat}
}

// Phones returns the full collection.
func (e *Engine) Phones() ([]models.Phone, error) {
	return e.cat.Phones()
}

// Phone looks a phone up by id.
func (e *Engine) Phone(id string) (models.Phone, bool, error) {
	return e.cat.FindByID(id)
}

// Search filters the collection and orders the result by key. Price keys use
// the filter's currency.
func (e *Engine) Search(f models.SearchFilters, key SortKey) ([]models.Phone, error) {
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	return Sort(Filter(phones, f), key, f.Currency), nil
}

// Related returns up to limit phones similar to the phone with the given id.
// An unknown id yields an empty result and no error.
func (e *Engine) Related(id string, limit int) ([]models.Phone, error) {
	subject, ok, err := e.cat.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Phone{}, nil
	}
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	return relatedTo(phones, subject, limit), nil
}

// Statistics summarises the whole collection.
func (e *Engine) Statistics() (Statistics, error) {
	phones, err := e.cat.Phones()
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(phones), nil
}

// Brands returns the distinct brands in ascending order.
func (e *Engine) Brands() ([]string, error) {
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	brands := make([]string, 0)
	for i := range phones {
		if _, ok := seen[phones[i].Brand]; ok {
			continue
		}
		seen[phones[i].Brand] = struct{}{}
		brands = append(brands, phones[i].Brand)
	}
	slices.Sort(brands)
	return brands, nil
}

// ByBrand returns the phones of one brand in collection order.
func (e *Engine) ByBrand(brand string) ([]models.Phone, error) {
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	result := make([]models.Phone, 0)
	for i := range phones {
		if phones[i].Brand == brand {
			result = append(result, phones[i])
		}
	}
	return result, nil
}

// Latest returns the most recently released phones.
func (e *Engine) Latest(limit int) ([]models.Phone, error) {
	return e.top(SortLatest, limit)
}

// TopRated returns the phones with the highest overall rating.
func (e *Engine) TopRated(limit int) ([]models.Phone, error) {
	return e.top(SortRating, limit)
}

func (e *Engine) top(key SortKey, limit int) ([]models.Phone, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	return truncate(Sort(phones, key, models.CurrencyUSD), limit), nil
}

// BestByCategory returns the five highest rated phones of a category.
func (e *Engine) BestByCategory(c models.Category) ([]models.Phone, error) {
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	inCategory := make([]models.Phone, 0)
	for i := range phones {
		if phones[i].Category == c {
			inCategory = append(inCategory, phones[i])
		}
	}
	return truncate(Sort(inCategory, SortRating, models.CurrencyUSD), bestCategoryLimit), nil
}

// BestByFeature returns the ten phones scoring highest on one rating feature.
func (e *Engine) BestByFeature(f models.RatingFeature) ([]models.Phone, error) {
	if _, ok := (models.Ratings{}).Score(f); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, f)
	}
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	return truncate(byFeature(phones, f), bestFeatureLimit), nil
}

// ByPriceRange returns the phones priced within [lo, hi] in currency c.
func (e *Engine) ByPriceRange(lo, hi float64, c models.Currency) ([]models.Phone, error) {
	phones, err := e.cat.Phones()
	if err != nil {
		return nil, err
	}
	return ByPriceRange(phones, lo, hi, c), nil
}

func truncate(phones []models.Phone, limit int) []models.Phone {
	if len(phones) > limit {
		return phones[:limit]
	}
	return phones
}
