// Package favorites provides HTTP handlers for saved phones and user ratings.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/server"
	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/pkg/models"
)

// PhoneLookup resolves catalog phones by id.
type PhoneLookup interface {
	Phone(id string) (models.Phone, bool, error)
}

// AddFavoriteRequest is the request body for POST /api/v1/favorites. Empty
// display fields are filled from the catalog.
type AddFavoriteRequest struct {
	UserID     string   `json:"userId" example:"user-42"`
	PhoneID    string   `json:"phoneId" example:"google-pixel-7a"`
	PhoneName  string   `json:"phoneName,omitempty" example:"Pixel 7a"`
	PhoneImage string   `json:"phoneImage,omitempty"`
	PhonePrice *float64 `json:"phonePrice,omitempty" example:"14970"`
}

// AddRatingRequest is the request body for POST /api/v1/ratings.
type AddRatingRequest struct {
	UserID  string   `json:"userId" example:"user-42"`
	PhoneID string   `json:"phoneId" example:"google-pixel-7a"`
	Rating  *float64 `json:"rating" example:"8.5"`
	Comment string   `json:"comment,omitempty"`
}

// Handler serves the favorites and ratings API.
type Handler struct {
	favorites services.FavoriteRepository
	ratings   services.RatingRepository
	phones    PhoneLookup
	logger    *zap.Logger
}

// NewHandler creates a favorites Handler.
func NewHandler(favorites services.FavoriteRepository, ratings services.RatingRepository, phones PhoneLookup, logger *zap.Logger) *Handler {
	return &Handler{favorites: favorites, ratings: ratings, phones: phones, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/favorites/{userID}", h.handleListFavorites)
	mux.HandleFunc("POST /api/v1/favorites", h.handleAddFavorite)
	mux.HandleFunc("DELETE /api/v1/favorites/{userID}/{phoneID}", h.handleDeleteFavorite)
	mux.HandleFunc("GET /api/v1/ratings/{phoneID}", h.handleListRatings)
	mux.HandleFunc("POST /api/v1/ratings", h.handleAddRating)
	mux.HandleFunc("GET /api/v1/ratings-average/{phoneID}", h.handleRatingAverage)
}

// handleListFavorites returns a user's favorites, newest first.
//
//	@Summary		List favorites
//	@Tags			favorites
//	@Produce		json
//	@Param			userID path string true "User ID"
//	@Param			limit query int false "Page size" default(50)
//	@Param			offset query int false "Offset" default(0)
//	@Param			sort query string false "created_at, phone_name, phone_price"
//	@Param			order query string false "asc or desc" default(desc)
//	@Success		200 {array} services.Favorite
//	@Header			200 {integer} X-Total-Count "Total favorites of the user"
//	@Failure		400 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/favorites/{userID} [get]
func (h *Handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	res, err := h.favorites.List(r.Context(), r.PathValue("userID"), opts)
	if err != nil {
		h.logger.Error("failed to list favorites", zap.Error(err))
		server.InternalError(w, "failed to fetch favorites", r.URL.Path)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(res.Total))
	server.WriteJSON(w, http.StatusOK, res.Items)
}

// handleAddFavorite saves a phone for a user.
//
//	@Summary		Add favorite
//	@Tags			favorites
//	@Accept			json
//	@Produce		json
//	@Param			request body AddFavoriteRequest true "Favorite to add"
//	@Success		201 {object} services.Favorite
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem "Unknown phone"
//	@Failure		409 {object} server.Problem "Already a favorite"
//	@Router			/favorites [post]
func (h *Handler) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	if req.UserID == "" || req.PhoneID == "" {
		server.BadRequest(w, "userId and phoneId are required", r.URL.Path)
		return
	}

	phone, ok := h.lookup(w, r, req.PhoneID)
	if !ok {
		return
	}

	fav := &services.Favorite{
		UserID:     req.UserID,
		PhoneID:    req.PhoneID,
		PhoneName:  req.PhoneName,
		PhoneImage: req.PhoneImage,
		PhonePrice: phone.Prices.EGP,
	}
	if fav.PhoneName == "" {
		fav.PhoneName = phone.Name
	}
	if fav.PhoneImage == "" {
		fav.PhoneImage = phone.Image
	}
	if req.PhonePrice != nil {
		fav.PhonePrice = *req.PhonePrice
	}

	if err := h.favorites.Add(r.Context(), fav); err != nil {
		if errors.Is(err, services.ErrAlreadyExists) {
			server.Conflict(w, fmt.Sprintf("phone %q is already a favorite", req.PhoneID), r.URL.Path)
			return
		}
		h.logger.Error("failed to add favorite", zap.Error(err))
		server.InternalError(w, "failed to add favorite", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusCreated, fav)
}

// handleDeleteFavorite removes a phone from a user's favorites.
//
//	@Summary		Delete favorite
//	@Tags			favorites
//	@Produce		json
//	@Param			userID path string true "User ID"
//	@Param			phoneID path string true "Phone ID"
//	@Success		200 {object} map[string]bool
//	@Failure		404 {object} server.Problem
//	@Router			/favorites/{userID}/{phoneID} [delete]
func (h *Handler) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.favorites.Delete(r.Context(), r.PathValue("userID"), r.PathValue("phoneID"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			server.NotFound(w, "favorite not found", r.URL.Path)
			return
		}
		h.logger.Error("failed to delete favorite", zap.Error(err))
		server.InternalError(w, "failed to delete favorite", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleListRatings returns a phone's ratings, newest first.
//
//	@Summary		List ratings
//	@Tags			ratings
//	@Produce		json
//	@Param			phoneID path string true "Phone ID"
//	@Success		200 {array} services.Rating
//	@Header			200 {integer} X-Total-Count "Total ratings of the phone"
//	@Failure		400 {object} server.Problem
//	@Router			/ratings/{phoneID} [get]
func (h *Handler) handleListRatings(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	res, err := h.ratings.List(r.Context(), r.PathValue("phoneID"), opts)
	if err != nil {
		h.logger.Error("failed to list ratings", zap.Error(err))
		server.InternalError(w, "failed to fetch ratings", r.URL.Path)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(res.Total))
	server.WriteJSON(w, http.StatusOK, res.Items)
}

// handleAddRating records or replaces a user's rating of a phone.
//
//	@Summary		Rate phone
//	@Tags			ratings
//	@Accept			json
//	@Produce		json
//	@Param			request body AddRatingRequest true "Rating"
//	@Success		200 {object} services.Rating
//	@Failure		400 {object} server.Problem
//	@Failure		404 {object} server.Problem "Unknown phone"
//	@Router			/ratings [post]
func (h *Handler) handleAddRating(w http.ResponseWriter, r *http.Request) {
	var req AddRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid request body", r.URL.Path)
		return
	}
	if req.UserID == "" || req.PhoneID == "" || req.Rating == nil {
		server.BadRequest(w, "userId, phoneId and rating are required", r.URL.Path)
		return
	}
	if _, ok := h.lookup(w, r, req.PhoneID); !ok {
		return
	}

	rating := &services.Rating{
		UserID:  req.UserID,
		PhoneID: req.PhoneID,
		Score:   *req.Rating,
		Comment: req.Comment,
	}
	if err := h.ratings.Upsert(r.Context(), rating); err != nil {
		if errors.Is(err, services.ErrInvalidScore) {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
		h.logger.Error("failed to add rating", zap.Error(err))
		server.InternalError(w, "failed to add rating", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, rating)
}

// handleRatingAverage returns the mean user rating of a phone.
//
//	@Summary		Rating average
//	@Tags			ratings
//	@Produce		json
//	@Param			phoneID path string true "Phone ID"
//	@Success		200 {object} services.RatingSummary
//	@Router			/ratings-average/{phoneID} [get]
func (h *Handler) handleRatingAverage(w http.ResponseWriter, r *http.Request) {
	sum, err := h.ratings.Average(r.Context(), r.PathValue("phoneID"))
	if err != nil {
		h.logger.Error("failed to average ratings", zap.Error(err))
		server.InternalError(w, "failed to fetch ratings average", r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, sum)
}

// lookup resolves a phone, writing the problem response itself when it
// cannot.
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

func listOptions(r *http.Request) (services.ListOptions, error) {
	q := r.URL.Query()
	opts := services.ListOptions{SortBy: q.Get("sort"), SortOrder: q.Get("order")}
	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		s := q.Get(name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return opts, fmt.Errorf("%s must be a non-negative integer", name)
		}
		*dst = v
	}
	return opts, nil
}

