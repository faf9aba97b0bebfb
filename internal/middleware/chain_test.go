package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// newTestRouter は本番構成に近いミドルウェアチェーンを組んだルーターを返す。
func newTestRouter(rl *RateLimiter) chi.Router {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(NewRecoveryMiddleware())
	r.Use(NewSecurityHeadersMiddleware())
	r.Use(NewCORSMiddleware("http://localhost:3000"))
	r.Use(NewLoggingMiddleware(logger))
	r.Use(rl.GeneralMiddleware())

	r.Get("/api/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	r.Get("/api/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	return r
}

// TestMiddlewareChain_NormalRequest はチェーン全体を通過したリクエストに
// セキュリティヘッダーとCORSヘッダーが付与されることを検証する。
func TestMiddlewareChain_NormalRequest(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	router := newTestRouter(rl)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", got, "nosniff")
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
	}
}

// TestMiddlewareChain_PanicRecovered はハンドラ内のpanicが500に変換され、
// プロセスが継続することを検証する。
func TestMiddlewareChain_PanicRecovered(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	defer rl.Stop()

	router := newTestRouter(rl)

	req := httptest.NewRequest(http.MethodGet, "/api/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

// TestMiddlewareChain_RateLimited_KeepsCORSHeaders はレート制限の429レスポンスにも
// CORSヘッダーが付与されることを検証する。ブラウザがエラー内容を読めるようにするため。
func TestMiddlewareChain_RateLimited_KeepsCORSHeaders(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    1,
		UploadRate:      rate.Limit(1.0 / 60.0),
		UploadBurst:     1,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	router := newTestRouter(rl)

	first := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	router.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, second)

	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:3000")
	}
}
