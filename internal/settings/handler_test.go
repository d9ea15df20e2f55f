package settings_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/HerbHall/phonedex/internal/services"
	"github.com/HerbHall/phonedex/internal/settings"
	"github.com/HerbHall/phonedex/internal/testutil"
	"github.com/HerbHall/phonedex/pkg/models"
)

func setupHandlerEnv(t *testing.T) (services.SettingsRepository, *http.ServeMux) {
	t.Helper()

	store := testutil.NewStore(t)
	repo, err := services.NewSQLiteSettingsRepository(context.Background(), store)
	if err != nil {
		t.Fatalf("NewSQLiteSettingsRepository: %v", err)
	}

	logger, _ := zap.NewDevelopment()
	handler := settings.NewHandler(repo, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return repo, mux
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

func decodePrefs(t *testing.T, w *httptest.ResponseRecorder) models.Preferences {
	t.Helper()
	var p models.Preferences
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("Decode response: %v", err)
	}
	return p
}

func TestHandleGetPreferences_Defaults(t *testing.T) {
	_, mux := setupHandlerEnv(t)

	w := doRequest(mux, "GET", "/api/v1/settings/user-1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("GetPreferences status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := decodePrefs(t, w); got != models.DefaultPreferences() {
		t.Errorf("preferences = %+v, want defaults", got)
	}
}

func TestHandleUpdatePreferences_Partial(t *testing.T) {
	_, mux := setupHandlerEnv(t)

	w := doRequest(mux, "PUT", "/api/v1/settings/user-1", map[string]any{"currency": "USD"})
	if w.Code != http.StatusOK {
		t.Fatalf("UpdatePreferences status = %d, want %d", w.Code, http.StatusOK)
	}

	w = doRequest(mux, "PUT", "/api/v1/settings/user-1", map[string]any{"darkMode": true})
	if w.Code != http.StatusOK {
		t.Fatalf("UpdatePreferences status = %d, want %d", w.Code, http.StatusOK)
	}

	got := decodePrefs(t, doRequest(mux, "GET", "/api/v1/settings/user-1", nil))
	want := models.Preferences{Currency: models.CurrencyUSD, Language: models.LanguageArabic, DarkMode: true}
	if got != want {
		t.Errorf("preferences = %+v, want %+v", got, want)
	}

	// Another user is unaffected.
	if other := decodePrefs(t, doRequest(mux, "GET", "/api/v1/settings/user-2", nil)); other != models.DefaultPreferences() {
		t.Errorf("user-2 preferences = %+v, want defaults", other)
	}
}

func TestHandleUpdatePreferences_Invalid(t *testing.T) {
	_, mux := setupHandlerEnv(t)

	for _, body := range []map[string]any{
		{"currency": "gbp"},
		{"language": "fr"},
	} {
		w := doRequest(mux, "PUT", "/api/v1/settings/user-1", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("UpdatePreferences(%v) status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}

	// Nothing was stored by the rejected updates.
	if got := decodePrefs(t, doRequest(mux, "GET", "/api/v1/settings/user-1", nil)); got != models.DefaultPreferences() {
		t.Errorf("preferences = %+v, want defaults", got)
	}
}

func TestHandleGetPreferences_IgnoresCorruptValues(t *testing.T) {
	repo, mux := setupHandlerEnv(t)

	if err := repo.Set(context.Background(), "user-1", "dark_mode", "maybe"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(context.Background(), "user-1", "language", "en"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := decodePrefs(t, doRequest(mux, "GET", "/api/v1/settings/user-1", nil))
	if got.DarkMode || got.Language != models.LanguageEnglish {
		t.Errorf("preferences = %+v, want english, dark mode off", got)
	}
}

func TestHandleUpdatePreferences_InvalidBody(t *testing.T) {
	_, mux := setupHandlerEnv(t)

	// Send invalid JSON
	req := httptest.NewRequest("PUT", "/api/v1/settings/user-1", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("UpdatePreferences with invalid body status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
