package catalog

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/server"
	"github.com/HerbHall/phonedex/pkg/models"
)

// PhoneListResponse is the response for GET /api/v1/phones.
type PhoneListResponse struct {
	Count    int             `json:"count"`
	Currency models.Currency `json:"currency"`
	Sort     SortKey         `json:"sort,omitempty"`
	Phones   []models.Phone  `json:"phones"`
}

// ConvertResponse is the response for GET /api/v1/convert.
type ConvertResponse struct {
	Amount float64         `json:"amount"`
	From   models.Currency `json:"from"`
	To     models.Currency `json:"to"`
	Result float64         `json:"result"`
}

// CategoryInfo describes one price tier for display.
type CategoryInfo struct {
	ID     models.Category `json:"id" example:"mid_range"`
	Label  string          `json:"label" example:"Mid-range"`
	Icon   string          `json:"icon" example:"smartphone"`
	Phones int             `json:"phones" example:"4"`
}

// Handler serves the phone catalog API.
type Handler struct {
	engine *Engine
	logger *zap.Logger
}

// NewHandler creates a new catalog API handler.
func NewHandler(engine *Engine, logger *zap.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// RegisterRoutes implements server.RouteRegistrar.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/phones", h.handleSearch)
	mux.HandleFunc("GET /api/v1/phones/latest", h.handleLatest)
	mux.HandleFunc("GET /api/v1/phones/top-rated", h.handleTopRated)
	mux.HandleFunc("GET /api/v1/phones/best", h.handleBest)
	mux.HandleFunc("GET /api/v1/phones/export", h.handleExport)
	mux.HandleFunc("GET /api/v1/phones/{id}", h.handleGetPhone)
	mux.HandleFunc("GET /api/v1/phones/{id}/related", h.handleRelated)
	mux.HandleFunc("GET /api/v1/brands", h.handleBrands)
	mux.HandleFunc("GET /api/v1/brands/{brand}/phones", h.handleBrandPhones)
	mux.HandleFunc("GET /api/v1/categories", h.handleCategories)
	mux.HandleFunc("GET /api/v1/statistics", h.handleStatistics)
	mux.HandleFunc("GET /api/v1/convert", h.handleConvert)
}

// handleSearch filters and sorts the catalog.
//
//	@Summary		Search phones
//	@Description	Filters the catalog by text, brand, category, price range and minimum rating, then orders the result.
//	@Tags			phones
//	@Produce		json
//	@Param			q query string false "Case-insensitive text matched against name, brand and model"
//	@Param			brand query []string false "Brand names (repeat or comma separate)"
//	@Param			category query []string false "budget, mid_range, premium, flagship"
//	@Param			min_price query number false "Lower price bound" default(0)
//	@Param			max_price query number false "Upper price bound" default(100000)
//	@Param			min_rating query number false "Minimum overall rating" default(0)
//	@Param			currency query string false "egp, usd, sar, aed" default(egp)
//	@Param			sort query string false "latest, rating, price-low, price-high, camera, performance"
//	@Param			limit query int false "Maximum results, 0 for all" default(0)
//	@Success		200 {object} PhoneListResponse
//	@Failure		400 {object} server.Problem
//	@Failure		500 {object} server.Problem
//	@Router			/phones [get]
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	key := SortKey(r.URL.Query().Get("sort"))
	if key != "" && !key.Valid() {
		server.BadRequest(w, fmt.Sprintf("unknown sort key %q", key), r.URL.Path)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	phones, err := h.engine.Search(f, key)
	if err != nil {
		h.internalError(w, r, "search failed", err)
		return
	}
	if limit > 0 {
		phones = truncate(phones, limit)
	}

	server.WriteJSON(w, http.StatusOK, PhoneListResponse{
		Count:    len(phones),
		Currency: f.Currency,
		Sort:     key,
		Phones:   phones,
	})
}

// handleGetPhone returns one phone.
//
//	@Summary		Get phone
//	@Tags			phones
//	@Produce		json
//	@Param			id path string true "Phone ID"
//	@Success		200 {object} models.Phone
//	@Failure		404 {object} server.Problem
//	@Router			/phones/{id} [get]
func (h *Handler) handleGetPhone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	phone, ok, err := h.engine.Phone(id)
	if err != nil {
		h.internalError(w, r, "lookup failed", err)
		return
	}
	if !ok {
		server.NotFound(w, fmt.Sprintf("phone %q not found", id), r.URL.Path)
		return
	}
	server.WriteJSON(w, http.StatusOK, phone)
}

// handleRelated returns phones similar to one phone. An unknown id yields an
// empty list.
//
//	@Summary		Related phones
//	@Description	Phones sharing the brand or category, closest usd price first.
//	@Tags			phones
//	@Produce		json
//	@Param			id path string true "Phone ID"
//	@Param			limit query int false "Maximum results" default(5)
//	@Success		200 {array} models.Phone
//	@Failure		400 {object} server.Problem
//	@Router			/phones/{id}/related [get]
func (h *Handler) handleRelated(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", DefaultRelatedLimit)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	phones, err := h.engine.Related(r.PathValue("id"), limit)
	if err != nil {
		h.internalError(w, r, "related lookup failed", err)
		return
	}
	server.WriteJSON(w, http.StatusOK, phones)
}

// handleLatest returns the most recently released phones.
//
//	@Summary		Latest phones
//	@Tags			phones
//	@Produce		json
//	@Param			limit query int false "Maximum results" default(10)
//	@Success		200 {array} models.Phone
//	@Router			/phones/latest [get]
func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	h.serveTop(w, r, h.engine.Latest)
}

// handleTopRated returns the highest rated phones.
//
//	@Summary		Top rated phones
//	@Tags			phones
//	@Produce		json
//	@Param			limit query int false "Maximum results" default(10)
//	@Success		200 {array} models.Phone
//	@Router			/phones/top-rated [get]
func (h *Handler) handleTopRated(w http.ResponseWriter, r *http.Request) {
	h.serveTop(w, r, h.engine.TopRated)
}

func (h *Handler) serveTop(w http.ResponseWriter, r *http.Request, list func(int) ([]models.Phone, error)) {
	limit, err := intParam(r, "limit", defaultListLimit)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	phones, err := list(limit)
	if err != nil {
		h.internalError(w, r, "listing failed", err)
		return
	}
	server.WriteJSON(w, http.StatusOK, phones)
}

// handleBest returns the best phones of a category or for a rating feature.
//
//	@Summary		Best phones
//	@Description	Exactly one of category or feature must be given.
//	@Tags			phones
//	@Produce		json
//	@Param			category query string false "budget, mid_range, premium, flagship"
//	@Param			feature query string false "overall, display, performance, camera, battery, design, value"
//	@Success		200 {array} models.Phone
//	@Failure		400 {object} server.Problem
//	@Router			/phones/best [get]
func (h *Handler) handleBest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, feature := q.Get("category"), q.Get("feature")

	var (
		phones []models.Phone
		err    error
	)
	switch {
	case category != "" && feature != "":
		server.BadRequest(w, "category and feature are mutually exclusive", r.URL.Path)
		return
	case category != "":
		c, perr := models.ParseCategory(category)
		if perr != nil {
			server.BadRequest(w, perr.Error(), r.URL.Path)
			return
		}
		phones, err = h.engine.BestByCategory(c)
	case feature != "":
		phones, err = h.engine.BestByFeature(models.RatingFeature(feature))
		if errors.Is(err, ErrUnknownFeature) {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
	default:
		server.BadRequest(w, "category or feature is required", r.URL.Path)
		return
	}
	if err != nil {
		h.internalError(w, r, "best lookup failed", err)
		return
	}
	server.WriteJSON(w, http.StatusOK, phones)
}

// handleBrands returns the distinct brands.
//
//	@Summary		List brands
//	@Tags			brands
//	@Produce		json
//	@Success		200 {array} string
//	@Router			/brands [get]
func (h *Handler) handleBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.engine.Brands()
	if err != nil {
		h.internalError(w, r, "brand listing failed", err)
		return
	}
	server.WriteJSON(w, http.StatusOK, brands)
}

// handleBrandPhones returns every phone of one brand.
//
//	@Summary		Phones by brand
//	@Tags			brands
//	@Produce		json
//	@Param			brand path string true "Brand name"
//	@Success		200 {array} models.Phone
//	@Router			/brands/{brand}/phones [get]
func (h *Handler) handleBrandPhones(w http.ResponseWriter, r *http.Request) {
	phones, err := h.engine.ByBrand(r.PathValue("brand"))
	if err != nil {
		h.internalError(w, r, "brand lookup failed", err)
		return
	}
	server.WriteJSON(w, http.StatusOK, phones)
}

// handleStatistics summarises the catalog.
//
//	@Summary		Catalog statistics
//	@Tags			phones
//	@Produce		json
//	@Success		200 {object} Statistics
//	@Router			/statistics [get]
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Statistics()
	if err != nil {
		h.internalError(w, r, "statistics failed", err)
		return
	}
	server.WriteJSON(w, http.StatusOK, stats)
}

// handleCategories lists the price tiers in ascending order with their
// display metadata and phone counts.
//
//	@Summary		List categories
//	@Tags			phones
//	@Produce		json
//	@Success		200 {array} CategoryInfo
//	@Router			/categories [get]
func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Statistics()
	if err != nil {
		h.internalError(w, r, "categories failed", err)
		return
	}
	out := make([]CategoryInfo, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, CategoryInfo{ID: c, Label: c.Label(), Icon: c.Icon(), Phones: stats.Categories[c]})
	}
	server.WriteJSON(w, http.StatusOK, out)
}

// handleConvert converts an amount between currencies.
//
//	@Summary		Convert price
//	@Tags			currency
//	@Produce		json
//	@Param			amount query number true "Amount to convert"
//	@Param			from query string true "Source currency"
//	@Param			to query string true "Target currency"
//	@Success		200 {object} ConvertResponse
//	@Failure		400 {object} server.Problem
//	@Router			/convert [get]
func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil || !isFinite(amount) {
		server.BadRequest(w, "amount must be a finite number", r.URL.Path)
		return
	}
	from, err := models.ParseCurrency(q.Get("from"))
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	to, err := models.ParseCurrency(q.Get("to"))
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	result := Convert(amount, from, to)
	if !isFinite(result) {
		server.BadRequest(w, "amount is out of range", r.URL.Path)
		return
	}

	server.WriteJSON(w, http.StatusOK, ConvertResponse{
		Amount: amount,
		From:   from,
		To:     to,
		Result: result,
	})
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// handleExport streams the filtered catalog as CSV.
//
//	@Summary		Export phones
//	@Description	Same filters and sort keys as the search endpoint, rendered as a CSV download.
//	@Tags			phones
//	@Produce		text/csv
//	@Param			q query string false "Text query"
//	@Param			brand query []string false "Brand names"
//	@Param			category query []string false "Categories"
//	@Param			currency query string false "Price currency" default(egp)
//	@Param			sort query string false "Sort key"
//	@Success		200 {string} string "CSV file"
//	@Failure		400 {object} server.Problem
//	@Router			/phones/export [get]
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	key := SortKey(r.URL.Query().Get("sort"))
	if key != "" && !key.Valid() {
		server.BadRequest(w, fmt.Sprintf("unknown sort key %q", key), r.URL.Path)
		return
	}

	phones, err := h.engine.Search(f, key)
	if err != nil {
		h.internalError(w, r, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="phones.csv"`)
	if err := WriteCSV(w, phones, f.Currency); err != nil {
		h.logger.Warn("CSV export interrupted", zap.Error(err))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
	server.InternalError(w, "failed to load catalog", r.URL.Path)
}

// -- query parsing --

// parseFilters builds SearchFilters from query parameters, starting from the
// defaults a new session uses.
func parseFilters(r *http.Request) (models.SearchFilters, error) {
	q := r.URL.Query()
	f := models.DefaultSearchFilters()
	f.SearchQuery = q.Get("q")
	f.Brands = listParam(q["brand"])

	for _, s := range listParam(q["category"]) {
		c, err := models.ParseCategory(s)
		if err != nil {
			return f, err
		}
		f.Categories = append(f.Categories, c)
	}

	if s := q.Get("currency"); s != "" {
		c, err := models.ParseCurrency(s)
		if err != nil {
			return f, err
		}
		f.Currency = c
	}

	var err error
	if f.PriceRange.Min, err = floatParam(r, "min_price", f.PriceRange.Min); err != nil {
		return f, err
	}
	if f.PriceRange.Max, err = floatParam(r, "max_price", f.PriceRange.Max); err != nil {
		return f, err
	}
	if f.MinRating, err = floatParam(r, "min_rating", 0); err != nil {
		return f, err
	}
	return f, nil
}

// listParam flattens repeated and comma separated values, dropping blanks.
func listParam(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}
