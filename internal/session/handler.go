package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/server"
	"github.com/HerbHall/phonedex/pkg/models"
)

// HeaderSessionID carries the session id in both directions.
const HeaderSessionID = "X-Session-ID"

// PhoneLookup resolves catalog phones by id.
type PhoneLookup interface {
	Phone(id string) (models.Phone, bool, error)
}

// Handler serves the session API.
type Handler struct {
	store  Store
	phones PhoneLookup
	logger *zap.Logger
}

// NewHandler creates a session Handler.
func NewHandler(store Store, phones PhoneLookup, logger *zap.Logger) *Handler {
	return &Handler{store: store, phones: phones, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/session", h.handleGet)
	mux.HandleFunc("DELETE /api/v1/session", h.handleReset)
	mux.HandleFunc("PUT /api/v1/session/filters", h.handleSetFilters)
	mux.HandleFunc("PUT /api/v1/session/preferences", h.handleSetPreferences)
	mux.HandleFunc("GET /api/v1/session/comparison/phones", h.handleComparisonPhones)
	mux.HandleFunc("POST /api/v1/session/comparison/{id}", h.handleAddComparison)
	mux.HandleFunc("DELETE /api/v1/session/comparison/{id}", h.handleRemoveComparison)
	mux.HandleFunc("DELETE /api/v1/session/comparison", h.handleClearComparison)
	mux.HandleFunc("POST /api/v1/session/favorites/{id}", h.handleAddFavorite)
	mux.HandleFunc("DELETE /api/v1/session/favorites/{id}", h.handleRemoveFavorite)
}

// handleGet returns the session state.
//
//	@Summary		Get session
//	@Description	Returns the session state. A new session id is issued in X-Session-ID when none is sent.
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Success		200 {object} State
//	@Router			/session [get]
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	state, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, state)
}

// handleReset forgets the session.
//
//	@Summary		Reset session
//	@Tags			session
//	@Param			X-Session-ID header string false "Session ID"
//	@Success		204
//	@Router			/session [delete]
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), sessionID(w, r)); err != nil {
		h.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetFilters replaces the active filters. Omitted fields take their
// defaults.
//
//	@Summary		Set filters
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Param			request body models.SearchFilters true "Filters"
//	@Success		200 {object} State
//	@Failure		400 {object} server.Problem
//	@Router			/session/filters [put]
func (h *Handler) handleSetFilters(w http.ResponseWriter, r *http.Request) {
	f := models.DefaultSearchFilters()
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	if err := validateFilters(&f); err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	h.update(w, r, func(s State) State { return s.WithFilters(f) })
}

// handleSetPreferences merges preferences into the session.
//
//	@Summary		Set preferences
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Param			request body models.Preferences true "Preferences"
//	@Success		200 {object} State
//	@Failure		400 {object} server.Problem
//	@Router			/session/preferences [put]
func (h *Handler) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		Currency *string `json:"currency"`
		Language *string `json:"language"`
		DarkMode *bool   `json:"darkMode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}

	var (
		currency models.Currency
		language models.Language
		err      error
	)
	if patch.Currency != nil {
		if currency, err = models.ParseCurrency(*patch.Currency); err != nil {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
	}
	if patch.Language != nil {
		if language, err = models.ParseLanguage(*patch.Language); err != nil {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
	}

	h.update(w, r, func(s State) State {
		p := s.Preferences
		if currency != "" {
			p.Currency = currency
		}
		if language != "" {
			p.Language = language
		}
		if patch.DarkMode != nil {
			p.DarkMode = *patch.DarkMode
		}
		return s.WithPreferences(p)
	})
}

// handleAddComparison adds a phone to the comparison list.
//
//	@Summary		Add to comparison
//	@Description	Adds a phone priced in the session filter currency. Adding a phone already listed is a no-op.
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Param			id path string true "Phone ID"
//	@Success		200 {object} State
//	@Failure		404 {object} server.Problem
//	@Failure		409 {object} server.Problem "Comparison list is full"
//	@Router			/session/comparison/{id} [post]
func (h *Handler) handleAddComparison(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.lookup(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	id := sessionID(w, r)
	full := false
	state, err := h.store.Update(r.Context(), id, func(s State) State {
		full = len(s.Comparison) >= MaxComparison && !s.InComparison(phone.ID)
		return s.AddToComparison(phone)
	})
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	if full {
		server.Conflict(w, fmt.Sprintf("comparison list holds at most %d phones", MaxComparison), r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, state)
}

// handleRemoveComparison drops a phone from the comparison list.
//
//	@Summary		Remove from comparison
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Param			id path string true "Phone ID"
//	@Success		200 {object} State
//	@Router			/session/comparison/{id} [delete]
func (h *Handler) handleRemoveComparison(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.update(w, r, func(s State) State { return s.RemoveFromComparison(id) })
}

// handleClearComparison empties the comparison list.
//
//	@Summary		Clear comparison
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Success		200 {object} State
//	@Router			/session/comparison [delete]
func (h *Handler) handleClearComparison(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, State.ClearComparison)
}

// handleComparisonPhones returns the full records of the compared phones.
//
//	@Summary		Compared phones
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Success		200 {array} models.Phone
//	@Router			/session/comparison/phones [get]
func (h *Handler) handleComparisonPhones(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.Get(r.Context(), sessionID(w, r))
	if err != nil {
		h.storeError(w, r, err)
		return
	}

	phones := make([]models.Phone, 0, len(state.Comparison))
	for _, c := range state.Comparison {
		p, ok, err := h.phones.Phone(c.ID)
		if err != nil {
			h.logger.Error("failed to load catalog", zap.Error(err))
			server.InternalError(w, "failed to load catalog", r.URL.Path)
			return
		}
		if ok {
			phones = append(phones, p)
		}
	}
	server.WriteJSON(w, http.StatusOK, phones)
}

// handleAddFavorite marks a phone as a session favorite.
//
//	@Summary		Add session favorite
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Param			id path string true "Phone ID"
//	@Success		200 {object} State
//	@Failure		404 {object} server.Problem
//	@Router			/session/favorites/{id} [post]
func (h *Handler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.lookup(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	h.update(w, r, func(s State) State { return s.AddFavorite(phone.ID) })
}

// handleRemoveFavorite unmarks a session favorite.
//
//	@Summary		Remove session favorite
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID header string false "Session ID"
//	@Param			id path string true "Phone ID"
//	@Success		200 {object} State
//	@Router			/session/favorites/{id} [delete]
func (h *Handler) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.update(w, r, func(s State) State { return s.RemoveFavorite(id) })
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, fn func(State) State) {
	state, err := h.store.Update(r.Context(), sessionID(w, r), fn)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, id string) (models.Phone, bool) {
	phone, ok, err := h.phones.Phone(id)
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		server.InternalError(w, "failed to load catalog", r.URL.Path)
		return models.Phone{}, false
	}
	if !ok {
		server.NotFound(w, fmt.Sprintf("phone %q not found", id), r.URL.Path)
		return models.Phone{}, false
	}
	return phone, true
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("session store failed", zap.String("path", r.URL.Path), zap.Error(err))
	server.InternalError(w, "session storage unavailable", r.URL.Path)
}

// sessionID returns the caller's session id, issuing a new one when the
// header is missing or malformed. The id is echoed in the response.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(HeaderSessionID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	w.Header().Set(HeaderSessionID, id)
	return id
}

func validateFilters(f *models.SearchFilters) error {
	c, err := models.ParseCurrency(string(f.Currency))
	if err != nil {
		return err
	}
	f.Currency = c
	for _, cat := range f.Categories {
		if !cat.Valid() {
			return fmt.Errorf("%w: %q", models.ErrUnknownCategory, cat)
		}
	}
	if f.MinRating < 0 {
		return errors.New("minRating must not be negative")
	}
	return nil
}
