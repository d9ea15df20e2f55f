package catalog

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/HerbHall/phonedex/pkg/models"
)

// rates are units of each currency per one usd. They are display-time
// approximations and never replace the per-currency prices in the dataset.
var rates = map[models.Currency]decimal.Decimal{
	models.CurrencyEGP: decimal.NewFromInt(30),
	models.CurrencyUSD: decimal.NewFromInt(1),
	models.CurrencySAR: decimal.RequireFromString("3.75"),
	models.CurrencyAED: decimal.RequireFromString("3.67"),
}

// Rate returns the units of c per one usd.
func Rate(c models.Currency) (float64, bool) {
	r, ok := rates[c]
	if !ok {
		return 0, false
	}
	return r.InexactFloat64(), true
}

// Convert converts amount between currencies through usd. Identical
// currencies return amount unchanged; otherwise the result is rounded to two
// decimals, half away from zero. Unsupported currencies yield 0. NaN and
// infinite amounts are returned unchanged; a result too large for a float64
// is +Inf or -Inf.
func Convert(amount float64, from, to models.Currency) float64 {
	if from == to || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return amount
	}
	rf, okFrom := rates[from]
	rt, okTo := rates[to]
	if !okFrom || !okTo {
		return 0
	}
	usd := decimal.NewFromFloat(amount).Div(rf)
	return usd.Mul(rt).Round(2).InexactFloat64()
}
