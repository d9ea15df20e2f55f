package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCurrency is returned when a currency code is not supported.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is one of the four currencies every phone is priced in.
type Currency string

const (
	CurrencyEGP Currency = "egp"
	CurrencyUSD Currency = "usd"
	CurrencySAR Currency = "sar"
	CurrencyAED Currency = "aed"
)

// Currencies lists the supported currencies.
var Currencies = []Currency{CurrencyEGP, CurrencyUSD, CurrencySAR, CurrencyAED}

// ParseCurrency accepts a currency code in any letter case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// Valid reports whether c is supported.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyEGP, CurrencyUSD, CurrencySAR, CurrencyAED:
		return true
	}
	return false
}

// Prices is the fixed price sheet of a phone, one amount per currency.
type Prices struct {
	EGP float64 `json:"egp" yaml:"egp"`
	USD float64 `json:"usd" yaml:"usd"`
	SAR float64 `json:"sar" yaml:"sar"`
	AED float64 `json:"aed" yaml:"aed"`
}

// In returns the price in currency c. An unsupported currency yields 0.
func (p Prices) In(c Currency) float64 {
	switch c {
	case CurrencyEGP:
		return p.EGP
	case CurrencyUSD:
		return p.USD
	case CurrencySAR:
		return p.SAR
	case CurrencyAED:
		return p.AED
	}
	return 0
}
