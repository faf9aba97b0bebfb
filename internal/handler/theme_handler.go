package handler

import (
	"net/http"
	"time"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/theme"
)

// ThemeHandler は週替わりテーマのHTTPハンドラー。
// テーマの解決は純粋な暦計算のためサービス層を挟まない。
type ThemeHandler struct{}

// NewThemeHandler はThemeHandlerを生成する。
func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

// GetTheme は指定日（dateクエリ、省略時は今日）のテーマを返す。
// GET /api/theme
func (h *ThemeHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		key, err := model.ParseDateKey(raw)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		t, err := key.Time()
		if err != nil {
			handleServiceError(w, err)
			return
		}
		date = t
	}

	writeJSON(w, http.StatusOK, theme.ForDate(date))
}

// GetCycle はテーマサイクル全体（5テーマ）を返す。
// GET /api/theme/cycle
func (h *ThemeHandler) GetCycle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, theme.All())
}
