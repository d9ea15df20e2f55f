package models

import (
	"errors"
	"fmt"
)

// ErrUnknownLanguage is returned when a language code is not supported.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a display language.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// ParseLanguage validates a language code.
func ParseLanguage(s string) (Language, error) {
	switch l := Language(s); l {
	case LanguageArabic, LanguageEnglish:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
}

// Preferences are the display choices of a user or session.
type Preferences struct {
	Currency Currency `json:"currency"`
	Language Language `json:"language"`
	DarkMode bool     `json:"darkMode"`
}

// DefaultPreferences returns the preferences a new user starts with.
func DefaultPreferences() Preferences {
	return Preferences{Currency: CurrencyEGP, Language: LanguageArabic}
}

// Validate reports the first unsupported field.
func (p Preferences) Validate() error {
	if !p.Currency.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, p.Currency)
	}
	if _, err := ParseLanguage(string(p.Language)); err != nil {
		return err
	}
	return nil
}
