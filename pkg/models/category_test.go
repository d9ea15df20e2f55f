package models

import (
	"errors"
	"testing"
)

func TestCategoryIconCoverage(t *testing.T) {
	for _, c := range Categories {
		if icon := c.Icon(); icon == "" || icon == "help-circle" {
			t.Errorf("Category %q has no icon", c)
		}
	}
}

func TestCategoryIconUnknownFallback(t *testing.T) {
	got := Category("nonexistent").Icon()
	want := "help-circle"
	if got != want {
		t.Errorf("unknown category icon = %q, want %q", got, want)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "budget", want: CategoryBudget},
		{in: "mid_range", want: CategoryMidRange},
		{in: "premium", want: CategoryPremium},
		{in: "flagship", want: CategoryFlagship},
		{in: "Flagship", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownCategory) {
					t.Fatalf("ParseCategory(%q) err = %v, want ErrUnknownCategory", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryMidRange.Label(); got != "Mid-range" {
		t.Errorf("Label() = %q, want Mid-range", got)
	}
	if got := Category("x").Label(); got != "Unknown" {
		t.Errorf("Label() = %q, want Unknown", got)
	}
}
