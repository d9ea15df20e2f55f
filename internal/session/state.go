// Package session holds the per-visitor browsing state: active filters, the
// comparison list, session favorites and display preferences.
package session

import (
	"slices"

	"github.com/HerbHall/phonedex/pkg/models"
)

// MaxComparison is the most phones a comparison list holds.
const MaxComparison = 4

// State is one visitor's browsing state. Methods never modify the receiver;
// they return an updated copy.
type State struct {
	Filters     models.SearchFilters     `json:"filters"`
	Comparison  []models.ComparisonPhone `json:"comparison"`
	Favorites   []string                 `json:"favorites"`
	Preferences models.Preferences       `json:"preferences"`
}

// NewState returns the state a new session starts with.
func NewState() State {
	return State{
		Filters:     models.DefaultSearchFilters(),
		Comparison:  []models.ComparisonPhone{},
		Favorites:   []string{},
		Preferences: models.DefaultPreferences(),
	}
}

// WithFilters replaces the active filters.
func (s State) WithFilters(f models.SearchFilters) State {
	s.Filters = f
	return s
}

// WithPreferences replaces the display preferences.
func (s State) WithPreferences(p models.Preferences) State {
	s.Preferences = p
	return s
}

// AddToComparison appends p priced in the filter currency. A full list or a
// phone already present leaves the state unchanged.
func (s State) AddToComparison(p models.Phone) State {
	if len(s.Comparison) >= MaxComparison || s.InComparison(p.ID) {
		return s
	}
	next := make([]models.ComparisonPhone, len(s.Comparison), len(s.Comparison)+1)
	copy(next, s.Comparison)
	s.Comparison = append(next, models.NewComparisonPhone(p, s.Filters.Currency))
	return s
}

// InComparison reports whether the phone is in the comparison list.
func (s State) InComparison(id string) bool {
	return slices.ContainsFunc(s.Comparison, func(c models.ComparisonPhone) bool { return c.ID == id })
}

// RemoveFromComparison drops the phone from the comparison list.
func (s State) RemoveFromComparison(id string) State {
	next := make([]models.ComparisonPhone, 0, len(s.Comparison))
	for _, c := range s.Comparison {
		if c.ID != id {
			next = append(next, c)
		}
	}
	s.Comparison = next
	return s
}

// ClearComparison empties the comparison list.
func (s State) ClearComparison() State {
	s.Comparison = []models.ComparisonPhone{}
	return s
}

// AddFavorite appends a phone id unless it is already a favorite.
func (s State) AddFavorite(id string) State {
	if s.IsFavorite(id) {
		return s
	}
	next := make([]string, len(s.Favorites), len(s.Favorites)+1)
	copy(next, s.Favorites)
	s.Favorites = append(next, id)
	return s
}

// RemoveFavorite drops a phone id from the favorites.
func (s State) RemoveFavorite(id string) State {
	next := make([]string, 0, len(s.Favorites))
	for _, f := range s.Favorites {
		if f != id {
			next = append(next, f)
		}
	}
	s.Favorites = next
	return s
}

// IsFavorite reports whether the phone id is a favorite.
func (s State) IsFavorite(id string) bool {
	return slices.Contains(s.Favorites, id)
}

// clone returns a deep copy so callers never share backing arrays.
func (s State) clone() State {
	s.Comparison = slices.Clone(s.Comparison)
	s.Favorites = slices.Clone(s.Favorites)
	s.Filters.Brands = slices.Clone(s.Filters.Brands)
	s.Filters.Categories = slices.Clone(s.Filters.Categories)
	return s.normalize()
}

// normalize replaces nil collections from decoded or zero states so the
// JSON form always carries arrays.
func (s State) normalize() State {
	if s.Comparison == nil {
		s.Comparison = []models.ComparisonPhone{}
	}
	if s.Favorites == nil {
		s.Favorites = []string{}
	}
	if s.Filters.Brands == nil {
		s.Filters.Brands = []string{}
	}
	if s.Filters.Categories == nil {
		s.Filters.Categories = []models.Category{}
	}
	return s
}
