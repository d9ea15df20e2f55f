package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/phonedex/pkg/models"
)

func TestLogger_NotNil(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewStore_Usable(t *testing.T) {
	db := NewStore(t)
	if db == nil {
		t.Fatal("expected non-nil store")
	}
	if err := db.DB().PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
}

func TestClock_Advance(t *testing.T) {
	c := NewClock()
	start := c.Now()
	c.Advance(5 * time.Minute)
	if got := c.Now().Sub(start); got != 5*time.Minute {
		t.Errorf("Advance: elapsed = %v, want 5m", got)
	}
}

func TestClock_AutoStep(t *testing.T) {
	c := NewClock().AutoStep(time.Second)
	first := c.Now()
	second := c.Now()
	if got := second.Sub(first); got != time.Second {
		t.Errorf("AutoStep: elapsed = %v, want 1s", got)
	}
}

func TestClock_Set(t *testing.T) {
	c := NewClock()
	target := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)
	c.Set(target)
	if !c.Now().Equal(target) {
		t.Errorf("Set: got %v, want %v", c.Now(), target)
	}
}

func TestNewPhone_Defaults(t *testing.T) {
	p := NewPhone()
	if p.ID == "" {
		t.Error("expected non-empty ID")
	}
	if p.Category != models.CategoryMidRange {
		t.Errorf("Category = %q, want mid_range", p.Category)
	}
	if p.Prices.EGP != 12000 {
		t.Errorf("Prices.EGP = %v, want 12000", p.Prices.EGP)
	}
}

func TestNewPhone_WithOptions(t *testing.T) {
	p := NewPhone(
		WithID("p1"),
		WithBrand("Acme"),
		WithUSD(100),
		WithRating(8.5),
		WithReleaseDate(2023, time.May, 4),
	)
	if p.ID != "p1" || p.Brand != "Acme" {
		t.Errorf("ID/Brand = %q/%q, want p1/Acme", p.ID, p.Brand)
	}
	if p.Prices.SAR != 375 || p.Prices.AED != 367 {
		t.Errorf("Prices = %+v", p.Prices)
	}
	if p.Ratings.Overall != 8.5 {
		t.Errorf("Overall = %v, want 8.5", p.Ratings.Overall)
	}
	if got := p.ReleaseDate.String(); got != "2023-05-04" {
		t.Errorf("ReleaseDate = %q, want 2023-05-04", got)
	}
}
