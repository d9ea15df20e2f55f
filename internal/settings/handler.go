// Package settings provides HTTP handlers for per-user display preferences.
package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/pkg/models"
)

// Setting keys under which preferences are stored.
const (
	keyCurrency = "currency"
	keyLanguage = "language"
	keyDarkMode = "dark_mode"
)

// UpdatePreferencesRequest is a partial preferences update. Omitted fields
// keep their current value.
// @Description Request body for updating user preferences.
type UpdatePreferencesRequest struct {
	Currency *string `json:"currency,omitempty" example:"usd"`
	Language *string `json:"language,omitempty" example:"en"`
	DarkMode *bool   `json:"darkMode,omitempty" example:"true"`
}

// SettingsProblemDetail represents an RFC 7807 error response for settings endpoints.
// @Description RFC 7807 Problem Details error response.
type SettingsProblemDetail struct {
	Type   string `json:"type" example:"https://phonedex.dev/problems/settings-error"`
	Title  string `json:"title" example:"Bad Request"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail" example:"unknown currency: \"gbp\""`
}

// Handler provides HTTP handlers for settings endpoints.
type Handler struct {
	settings services.SettingsRepository
	logger   *zap.Logger
}

// NewHandler creates a settings Handler.
func NewHandler(settings services.SettingsRepository, logger *zap.Logger) *Handler {
	return &Handler{settings: settings, logger: logger}
}

// RegisterRoutes registers settings-related routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/settings/{userID}", h.handleGetPreferences)
	mux.HandleFunc("PUT /api/v1/settings/{userID}", h.handleUpdatePreferences)
}

// handleGetPreferences returns a user's preferences, defaults filled in.
//
//	@Summary		Get preferences
//	@Description	Get the display preferences of a user. Unset fields report their defaults.
//	@Tags			settings
//	@Produce		json
//	@Param			userID	path		string					true	"User ID"
//	@Success		200		{object}	models.Preferences		"Current preferences"
//	@Failure		500		{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/{userID} [get]
func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.load(r.Context(), r.PathValue("userID"))
	if err != nil {
		h.logger.Error("failed to load preferences", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// handleUpdatePreferences merges a partial update into a user's preferences.
//
//	@Summary		Update preferences
//	@Description	Change any of currency, language and dark mode.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			userID	path		string						true	"User ID"
//	@Param			request	body		UpdatePreferencesRequest	true	"Fields to change"
//	@Success		200		{object}	models.Preferences			"Updated preferences"
//	@Failure		400		{object}	SettingsProblemDetail		"Invalid request"
//	@Failure		500		{object}	SettingsProblemDetail		"Internal server error"
//	@Router			/settings/{userID} [put]
func (h *Handler) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettingsError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := r.PathValue("userID")
	prefs, err := h.load(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load preferences", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	if req.Currency != nil {
		c, err := models.ParseCurrency(*req.Currency)
		if err != nil {
			writeSettingsError(w, http.StatusBadRequest, err.Error())
			return
		}
		prefs.Currency = c
	}
	if req.Language != nil {
		l, err := models.ParseLanguage(*req.Language)
		if err != nil {
			writeSettingsError(w, http.StatusBadRequest, err.Error())
			return
		}
		prefs.Language = l
	}
	if req.DarkMode != nil {
		prefs.DarkMode = *req.DarkMode
	}

	if err := h.settings.SetMany(r.Context(), userID, map[string]string{
		keyCurrency: string(prefs.Currency),
		keyLanguage: string(prefs.Language),
		keyDarkMode: strconv.FormatBool(prefs.DarkMode),
	}); err != nil {
		h.logger.Error("failed to save preferences", zap.String("user_id", userID), zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// load reads stored preferences over the defaults. Stored values that no
// longer parse are ignored.
func (h *Handler) load(ctx context.Context, userID string) (models.Preferences, error) {
	prefs := models.DefaultPreferences()
	stored, err := h.settings.GetAll(ctx, userID)
	if err != nil {
		return prefs, err
	}
	for _, s := range stored {
		switch s.Key {
		case keyCurrency:
			if c, err := models.ParseCurrency(s.Value); err == nil {
				prefs.Currency = c
			}
		case keyLanguage:
			if l, err := models.ParseLanguage(s.Value); err == nil {
				prefs.Language = l
			}
		case keyDarkMode:
			if b, err := strconv.ParseBool(s.Value); err == nil {
				prefs.DarkMode = b
			}
		}
	}
	return prefs, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSettingsError writes an RFC 7807 problem response.
func writeSettingsError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://phonedex.dev/problems/settings-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
