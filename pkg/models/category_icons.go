package models

// CategoryIcon maps a Category to its icon identifier.
// Identifiers use Lucide icon names (https://lucide.dev) for
// compatibility with the web frontend.
var CategoryIcon = map[Category]string{
	CategoryBudget:   "piggy-bank",
	CategoryMidRange: "smartphone",
	CategoryPremium:  "gem",
	CategoryFlagship: "crown",
}

// Icon returns the icon identifier for a Category.
// Returns "help-circle" for unrecognised categories.
func (c Category) Icon() string {
	if icon, ok := CategoryIcon[c]; ok {
		return icon
	}
	return "help-circle"
}
