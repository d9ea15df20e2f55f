package models

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category string is not one of the
// four catalog tiers.
var ErrUnknownCategory = errors.New("unknown category")

// Category is the price tier of a phone.
type Category string

const (
	CategoryBudget   Category = "budget"
	CategoryMidRange Category = "mid_range"
	CategoryPremium  Category = "premium"
	CategoryFlagship Category = "flagship"
)

// Categories lists every tier from cheapest to most expensive.
var Categories = []Category{CategoryBudget, CategoryMidRange, CategoryPremium, CategoryFlagship}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the four tiers.
func (c Category) Valid() bool {
	switch c {
	case CategoryBudget, CategoryMidRange, CategoryPremium, CategoryFlagship:
		return true
	}
	return false
}

// Label returns the display name for the tier.
func (c Category) Label() string {
	switch c {
	case CategoryBudget:
		return "Budget"
	case CategoryMidRange:
		return "Mid-range"
	case CategoryPremium:
		return "Premium"
	case CategoryFlagship:
		return "Flagship"
	}
	return "Unknown"
}
