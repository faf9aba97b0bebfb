package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/theme"
)

// newThemeTestRouter はテーマルートのみを構成したルーターを返す。
func newThemeTestRouter() http.Handler {
	r := chi.NewRouter()
	h := NewThemeHandler()

	r.Route("/api/theme", func(r chi.Router) {
		r.Get("/", h.GetTheme)
		r.Get("/cycle", h.GetCycle)
	})

	return r
}

func TestThemeHandler_GetTheme_WithDate(t *testing.T) {
	router := newThemeTestRouter()

	// 2026-01-01はISO週1 = pinkテーマ
	req := httptest.NewRequest(http.MethodGet, "/api/theme?date=2026-01-01", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got theme.Theme
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.Name != "pink" {
		t.Errorf("name = %q, want %q", got.Name, "pink")
	}
}

func TestThemeHandler_GetTheme_DefaultsToToday(t *testing.T) {
	router := newThemeTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/theme", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got theme.Theme
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if got.Name == "" {
		t.Error("theme name should not be empty")
	}
}

func TestThemeHandler_GetTheme_InvalidDate(t *testing.T) {
	router := newThemeTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/theme?date=not-a-date", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestThemeHandler_GetCycle(t *testing.T) {
	router := newThemeTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/theme/cycle", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var cycle []theme.Theme
	if err := json.NewDecoder(resp.Body).Decode(&cycle); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(cycle) != 5 {
		t.Fatalf("len(cycle) = %d, want 5", len(cycle))
	}
	if cycle[4].Name != theme.ThemeFree {
		t.Errorf("cycle[4].Name = %q, want %q", cycle[4].Name, theme.ThemeFree)
	}
}
