package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/HerbHall/phonedex/pkg/models"
)

// AveragePrice is the mean usd price and its egp conversion, both rounded to
// whole units.
type AveragePrice struct {
	USD float64 `json:"usd"`
	EGP float64 `json:"egp"`
}

// Statistics summarises a phone collection.
type Statistics struct {
	TotalPhones   int                     `json:"totalPhones"`
	TotalBrands   int                     `json:"totalBrands"`
	AveragePrice  AveragePrice            `json:"averagePrice"`
	AverageRating float64                 `json:"averageRating"`
	MinPrice      float64                 `json:"minPrice"`
	MaxPrice      float64                 `json:"maxPrice"`
	Categories    map[models.Category]int `json:"categories"`
}

// ComputeStatistics summarises phones in a single pass. Prices are usd. An
// empty collection yields zero for every numeric field.
func ComputeStatistics(phones []models.Phone) Statistics {
	stats := Statistics{Categories: make(map[models.Category]int, len(models.Categories))}
	for _, c := range models.Categories {
		stats.Categories[c] = 0
	}
	if len(phones) == 0 {
		return stats
	}

	brands := make(map[string]struct{})
	var priceSum, ratingSum float64
	minPrice, maxPrice := phones[0].Prices.USD, phones[0].Prices.USD

	for i := range phones {
		p := &phones[i]
		brands[p.Brand] = struct{}{}

		usd := p.Prices.USD
		priceSum += usd
		minPrice = min(minPrice, usd)
		maxPrice = max(maxPrice, usd)
		ratingSum += p.Ratings.Overall

		switch p.Category {
		case models.CategoryBudget, models.CategoryMidRange, models.CategoryPremium, models.CategoryFlagship:
			stats.Categories[p.Category]++
		}
	}

	n := float64(len(phones))
	meanUSD := priceSum / n

	stats.TotalPhones = len(phones)
	stats.TotalBrands = len(brands)
	stats.AveragePrice = AveragePrice{
		USD: roundTo(meanUSD, 0),
		EGP: roundTo(Convert(meanUSD, models.CurrencyUSD, models.CurrencyEGP), 0),
	}
	stats.AverageRating = roundTo(ratingSum/n, 1)
	stats.MinPrice = minPrice
	stats.MaxPrice = maxPrice
	return stats
}

// roundTo rounds v to places decimals, half away from zero.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
