package favorites_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/catalog"
	"github.com/HerbHall/phonedex/internal/favorites"
	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/internal/testutil"
	pkgcatalog "github.com/HerbHall/phonedex/pkg/catalog"
)

func setupHandlerEnv(t *testing.T) *http.ServeMux {
	t.Helper()

	store := testutil.NewStore(t)
	ctx := context.Background()
	favRepo, err := services.NewSQLiteFavoriteRepository(ctx, store)
	if err != nil {
		t.Fatalf("NewSQLiteFavoriteRepository: %v", err)
	}
	ratingRepo, err := services.NewSQLiteRatingRepository(ctx, store)
	if err != nil {
		t.Fatalf("NewSQLiteRatingRepository: %v", err)
	}
	clock := testutil.NewClock().AutoStep(time.Second)
	favRepo.SetClock(clock.Now)
	ratingRepo.SetClock(clock.Now)

	engine := catalog.NewEngine(pkgcatalog.NewStaticCatalog(testutil.ScenarioPhones()))
	handler := favorites.NewHandler(favRepo, ratingRepo, engine, zap.NewNop())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return mux
}

func doRequest(mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandleAddFavorite_FillsFromCatalog(t *testing.T) {
	mux := setupHandlerEnv(t)

	w := doRequest(mux, "POST", "/api/v1/favorites", map[string]any{"userId": "u1", "phoneId": "b"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var fav services.Favorite
	if err := json.NewDecoder(w.Body).Decode(&fav); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fav.PhoneName != "Bravo" {
		t.Errorf("PhoneName = %q, want Bravo", fav.PhoneName)
	}
	if fav.PhonePrice != 15000 {
		t.Errorf("PhonePrice = %v, want 15000 (egp)", fav.PhonePrice)
	}
	if fav.ID == "" {
		t.Error("ID is empty")
	}
}

func TestHandleAddFavorite_ExplicitFieldsWin(t *testing.T) {
	mux := setupHandlerEnv(t)

	w := doRequest(mux, "POST", "/api/v1/favorites", map[string]any{
		"userId": "u1", "phoneId": "a", "phoneName": "My Alpha", "phonePrice": 0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var fav services.Favorite
	_ = json.NewDecoder(w.Body).Decode(&fav)
	if fav.PhoneName != "My Alpha" || fav.PhonePrice != 0 {
		t.Errorf("favorite = %+v, want explicit name and zero price", fav)
	}
}

func TestHandleAddFavorite_Errors(t *testing.T) {
	mux := setupHandlerEnv(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing user", map[string]any{"phoneId": "a"}, http.StatusBadRequest},
		{"unknown phone", map[string]any{"userId": "u1", "phoneId": "zzz"}, http.StatusNotFound},
		{"malformed", "not an object", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(mux, "POST", "/api/v1/favorites", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}

	body := map[string]any{"userId": "u1", "phoneId": "a"}
	doRequest(mux, "POST", "/api/v1/favorites", body)
	if w := doRequest(mux, "POST", "/api/v1/favorites", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
}

func TestHandleListAndDeleteFavorites(t *testing.T) {
	mux := setupHandlerEnv(t)
	for _, id := range []string{"a", "b", "c"} {
		doRequest(mux, "POST", "/api/v1/favorites", map[string]any{"userId": "u1", "phoneId": id})
	}

	w := doRequest(mux, "GET", "/api/v1/favorites/u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if got := w.Header().Get("X-Total-Count"); got != "3" {
		t.Errorf("X-Total-Count = %q, want 3", got)
	}
	var list []services.Favorite
	_ = json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 3 || list[0].PhoneID != "c" {
		t.Errorf("list = %+v, want newest (c) first", list)
	}

	if w := doRequest(mux, "DELETE", "/api/v1/favorites/u1/c", nil); w.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", w.Code)
	}
	if w := doRequest(mux, "DELETE", "/api/v1/favorites/u1/c", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}

	w = doRequest(mux, "GET", "/api/v1/favorites/u1?limit=1&sort=phone_name&order=asc", nil)
	list = nil
	_ = json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 || list[0].PhoneID != "a" {
		t.Errorf("sorted page = %+v, want [a]", list)
	}

	if w := doRequest(mux, "GET", "/api/v1/favorites/u1?limit=x", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
}

func TestHandleRatings(t *testing.T) {
	mux := setupHandlerEnv(t)

	for _, r := range []map[string]any{
		{"userId": "u1", "phoneId": "a", "rating": 6},
		{"userId": "u2", "phoneId": "a", "rating": 9, "comment": "great"},
		{"userId": "u1", "phoneId": "a", "rating": 8},
	} {
		if w := doRequest(mux, "POST", "/api/v1/ratings", r); w.Code != http.StatusOK {
			t.Fatalf("rate %v status = %d: %s", r, w.Code, w.Body.String())
		}
	}

	w := doRequest(mux, "GET", "/api/v1/ratings/a", nil)
	var list []services.Rating
	_ = json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 2 {
		t.Fatalf("ratings = %d, want 2 (one per user)", len(list))
	}

	w = doRequest(mux, "GET", "/api/v1/ratings-average/a", nil)
	var sum services.RatingSummary
	_ = json.NewDecoder(w.Body).Decode(&sum)
	if sum.Average != 8.5 || sum.Count != 2 {
		t.Errorf("average = %+v, want 8.5 over 2", sum)
	}

	w = doRequest(mux, "GET", "/api/v1/ratings-average/c", nil)
	sum = services.RatingSummary{}
	_ = json.NewDecoder(w.Body).Decode(&sum)
	if sum.Average != 0 || sum.Count != 0 {
		t.Errorf("unrated average = %+v, want zeros", sum)
	}
}

func TestHandleAddRating_Errors(t *testing.T) {
	mux := setupHandlerEnv(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"out of range", map[string]any{"userId": "u1", "phoneId": "a", "rating": 11}, http.StatusBadRequest},
		{"missing rating", map[string]any{"userId": "u1", "phoneId": "a"}, http.StatusBadRequest},
		{"unknown phone", map[string]any{"userId": "u1", "phoneId": "zzz", "rating": 5}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(mux, "POST", "/api/v1/ratings", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
