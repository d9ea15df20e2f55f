package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HerbHall/phonedex/pkg/models"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		from, to models.Currency
		want     float64
	}{
		{"identity keeps precision", 123.456, models.CurrencySAR, models.CurrencySAR, 123.456},
		{"usd to egp", 100, models.CurrencyUSD, models.CurrencyEGP, 3000},
		{"egp to usd", 1000, models.CurrencyEGP, models.CurrencyUSD, 33.33},
		{"usd to sar", 10, models.CurrencyUSD, models.CurrencySAR, 37.5},
		{"sar to aed", 375, models.CurrencySAR, models.CurrencyAED, 367},
		{"rounds half away from zero", 0.0005, models.CurrencyUSD, models.CurrencyEGP, 0.02},
		{"unknown source", 10, "gbp", models.CurrencyUSD, 0},
		{"unknown target", 10, models.CurrencyUSD, "gbp", 0},
		{"positive infinity unchanged", math.Inf(1), models.CurrencyUSD, models.CurrencyEGP, math.Inf(1)},
		{"negative infinity unchanged", math.Inf(-1), models.CurrencyEGP, models.CurrencyUSD, math.Inf(-1)},
		{"overflow", 1e308, models.CurrencyUSD, models.CurrencyEGP, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(tt.amount, tt.from, tt.to))
		})
	}
}

func TestConvert_NaN(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.True(t, math.IsNaN(Convert(math.NaN(), models.CurrencyUSD, models.CurrencyEGP)))
	})
}

func TestConvert_RoundTripWithinOneUnit(t *testing.T) {
	for _, a := range models.Currencies {
		for _, b := range models.Currencies {
			back := Convert(Convert(1000, a, b), b, a)
			assert.InDelta(t, 1000, back, 1, "%s -> %s -> %s", a, b, a)
		}
	}
}

func TestRate(t *testing.T) {
	r, ok := Rate(models.CurrencySAR)
	assert.True(t, ok)
	assert.Equal(t, 3.75, r)

	_, ok = Rate("jpy")
	assert.False(t, ok)
}
