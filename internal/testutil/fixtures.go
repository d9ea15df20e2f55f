package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/HerbHall/phonedex/pkg/models"
)

// NewPhone returns a Phone with sensible defaults, suitable for test fixtures.
// Override individual fields with the option funcs or after creation.
func NewPhone(opts ...func(*models.Phone)) models.Phone {
	p := models.Phone{
		ID:          uuid.New().String(),
		Name:        "Test Phone",
		Brand:       "TestBrand",
		Model:       "T-1",
		Image:       "https://images.phonedex.example/test.png",
		ReleaseDate: models.NewDate(2024, time.January, 1),
		Category:    models.CategoryMidRange,
		Ratings: models.Ratings{
			Overall: 7, Display: 7, Performance: 7, Camera: 7,
			Battery: 7, Design: 7, Value: 7, UserCount: 100,
		},
	}
	WithUSD(400)(&p)
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithID sets the phone id.
func WithID(id string) func(*models.Phone) {
	return func(p *models.Phone) { p.ID = id }
}

// WithName sets the phone name.
func WithName(name string) func(*models.Phone) {
	return func(p *models.Phone) { p.Name = name }
}

// WithBrand sets the phone brand.
func WithBrand(brand string) func(*models.Phone) {
	return func(p *models.Phone) { p.Brand = brand }
}

// WithModel sets the phone model code.
func WithModel(model string) func(*models.Phone) {
	return func(p *models.Phone) { p.Model = model }
}

// WithCategory sets the phone category.
func WithCategory(c models.Category) func(*models.Phone) {
	return func(p *models.Phone) { p.Category = c }
}

// WithUSD sets the usd price and derives the other currencies at the
// catalog's fixed rates, truncated like the dataset generator does.
func WithUSD(usd float64) func(*models.Phone) {
	return func(p *models.Phone) {
		p.Prices = models.Prices{
			EGP: usd * 30,
			USD: usd,
			SAR: float64(int(usd * 3.75)),
			AED: float64(int(usd * 3.67)),
		}
	}
}

// WithPrices sets the full price sheet.
func WithPrices(prices models.Prices) func(*models.Phone) {
	return func(p *models.Phone) { p.Prices = prices }
}

// WithRating sets the overall rating.
func WithRating(overall float64) func(*models.Phone) {
	return func(p *models.Phone) { p.Ratings.Overall = overall }
}

// WithRatings sets every rating sub-score.
func WithRatings(r models.Ratings) func(*models.Phone) {
	return func(p *models.Phone) { p.Ratings = r }
}

// WithReleaseDate sets the release date.
func WithReleaseDate(year int, month time.Month, day int) func(*models.Phone) {
	return func(p *models.Phone) { p.ReleaseDate = models.NewDate(year, month, day) }
}

// ScenarioPhones returns the three-phone catalog used by end-to-end query
// tests: a and b share brand X, a and c share the budget category.
func ScenarioPhones() []models.Phone {
	return []models.Phone{
		NewPhone(WithID("a"), WithName("Alpha"), WithBrand("X"), WithCategory(models.CategoryBudget), WithUSD(100), WithRating(5)),
		NewPhone(WithID("b"), WithName("Bravo"), WithBrand("X"), WithCategory(models.CategoryPremium), WithUSD(500), WithRating(9)),
		NewPhone(WithID("c"), WithName("Charlie"), WithBrand("Y"), WithCategory(models.CategoryBudget), WithUSD(150), WithRating(7)),
	}
}
