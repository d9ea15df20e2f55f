package models

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether min <= v <= max.
func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// SearchFilters describes one catalog query. Empty sets and a zero MinRating
// disable their predicates; the price range is always applied.
type SearchFilters struct {
	SearchQuery string     `json:"searchQuery"`
	Brands      []string   `json:"brands"`
	PriceRange  PriceRange `json:"priceRange"`
	Categories  []Category `json:"categories"`
	MinRating   float64    `json:"minRating"`
	Currency    Currency   `json:"currency"`
}

// DefaultMaxPrice is the upper bound of the default price range.
const DefaultMaxPrice = 100000

// DefaultSearchFilters returns the filters a new browsing session starts with.
func DefaultSearchFilters() SearchFilters {
	return SearchFilters{
		Brands:     []string{},
		PriceRange: PriceRange{Min: 0, Max: DefaultMaxPrice},
		Categories: []Category{},
		Currency:   CurrencyEGP,
	}
}

// ComparisonRatings is the rating subset shown in the comparison table.
type ComparisonRatings struct {
	Overall     float64 `json:"overall"`
	Display     float64 `json:"display"`
	Performance float64 `json:"performance"`
	Camera      float64 `json:"camera"`
	Battery     float64 `json:"battery"`
}

// ComparisonPhone is the projection of a Phone held in a comparison list.
type ComparisonPhone struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Image   string            `json:"image"`
	Price   float64           `json:"price"`
	Ratings ComparisonRatings `json:"ratings"`
}

// NewComparisonPhone projects p with its price in currency c.
func NewComparisonPhone(p Phone, c Currency) ComparisonPhone {
	return ComparisonPhone{
		ID:    p.ID,
		Name:  p.Name,
		Image: p.Image,
		Price: p.Prices.In(c),
		Ratings: ComparisonRatings{
			Overall:     p.Ratings.Overall,
			Display:     p.Ratings.Display,
			Performance: p.Ratings.Performance,
			Camera:      p.Ratings.Camera,
			Battery:     p.Ratings.Battery,
		},
	}
}
