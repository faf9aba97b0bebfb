package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

// testRateLimiterConfig はクリーンアップが走らない短時間テスト用の設定を返す。
func testRateLimiterConfig(generalBurst, uploadBurst int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0), // テスト中に補充されない程度に遅く
		GeneralBurst:    generalBurst,
		UploadRate:      rate.Limit(1.0 / 60.0),
		UploadBurst:     uploadBurst,
		CleanupInterval: time.Hour,
	}
}

func doRequest(handler http.Handler, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("X-Forwarded-For", clientIP)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// TestRateLimiter_General_AllowsWithinBurst はバースト内のリクエストが
// すべて通過することを検証する。
func TestRateLimiter_General_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(5, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		w := doRequest(handler, "198.51.100.1")
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Result().StatusCode, http.StatusOK)
		}
	}
}

// TestRateLimiter_General_Returns429WhenExceeded はバースト超過時に
// 429とRetry-Afterヘッダーが返ることを検証する。
func TestRateLimiter_General_Returns429WhenExceeded(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(2, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest(handler, "198.51.100.2")
	doRequest(handler, "198.51.100.2")

	w := doRequest(handler, "198.51.100.2")
	resp := w.Result()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["code"] != "rate_limit_exceeded" {
		t.Errorf("code = %q, want %q", body["code"], "rate_limit_exceeded")
	}
}

// TestRateLimiter_SeparateClients_IndependentLimits はクライアントIPごとに
// 独立したリミッターが使われることを検証する。
func TestRateLimiter_SeparateClients_IndependentLimits(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(1, 1))
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// クライアントAがバーストを使い切る
	doRequest(handler, "198.51.100.10")
	if w := doRequest(handler, "198.51.100.10"); w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("client A second request: status = %d, want 429", w.Result().StatusCode)
	}

	// クライアントBには影響しない
	if w := doRequest(handler, "198.51.100.11"); w.Result().StatusCode != http.StatusOK {
		t.Errorf("client B: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
}

// TestRateLimiter_Upload_IndependentOfGeneral は写真登録のレート制限が
// API全般の制限と独立に動作することを検証する。
func TestRateLimiter_Upload_IndependentOfGeneral(t *testing.T) {
	rl := NewRateLimiter(testRateLimiterConfig(5, 1))
	defer rl.Stop()

	generalHandler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	uploadHandler := rl.UploadMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	// 写真登録のバースト(1)を使い切る
	doRequest(uploadHandler, "198.51.100.20")
	if w := doRequest(uploadHandler, "198.51.100.20"); w.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("upload second request: status = %d, want 429", w.Result().StatusCode)
	}

	// API全般は引き続き通過する
	if w := doRequest(generalHandler, "198.51.100.20"); w.Result().StatusCode != http.StatusOK {
		t.Errorf("general after upload limit: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

// TestRateLimiter_Cleanup_RemovesExpiredEntries は長時間アクセスのない
// エントリがクリーンアップで削除されることを検証する。
func TestRateLimiter_Cleanup_RemovesExpiredEntries(t *testing.T) {
	cfg := testRateLimiterConfig(1, 1)
	cfg.CleanupInterval = 10 * time.Millisecond
	rl := NewRateLimiter(cfg)
	defer rl.Stop()

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	doRequest(handler, "198.51.100.30")

	if got := rl.GeneralLimiterCount(); got != 1 {
		t.Fatalf("GeneralLimiterCount() = %d, want 1", got)
	}

	// 最終アクセスを過去にずらし、クリーンアップ対象にする
	rl.generalMu.Lock()
	for _, cl := range rl.generalLimiters {
		cl.lastAccess = time.Now().Add(-time.Hour)
	}
	rl.generalMu.Unlock()

	rl.cleanup()

	if got := rl.GeneralLimiterCount(); got != 0 {
		t.Errorf("GeneralLimiterCount() after cleanup = %d, want 0", got)
	}
}
