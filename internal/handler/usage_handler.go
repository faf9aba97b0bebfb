package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/closetman/internal/metrics"
	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/theme"
	"github.com/hitoshi/closetman/internal/usage"
)

// UsageServiceInterface は利用状況ハンドラーが必要とするサービスインターフェース。
type UsageServiceInterface interface {
	// Compute は全計画からアイテムごとの登場回数を集計する。
	Compute(ctx context.Context, themeFilter *theme.Theme) (*usage.Summary, error)
	// ColorUsage は色ごとの所持アイテム数を返す。
	ColorUsage(ctx context.Context) ([]usage.ColorCount, error)
	// OldItems はしばらく着ていないアイテムを返す。
	OldItems(ctx context.Context, now time.Time) ([]model.Item, error)
	// PackingList は日付範囲の計画からパッキングリストを作る。
	PackingList(ctx context.Context, rawDates []string) ([]model.Item, error)
}

// UsageHandler は利用状況集計のHTTPハンドラー。
type UsageHandler struct {
	service   UsageServiceInterface
	collector metrics.MetricsCollector // nilの場合は記録しない
}

// NewUsageHandler はUsageHandlerを生成する。
func NewUsageHandler(service UsageServiceInterface, collector metrics.MetricsCollector) *UsageHandler {
	return &UsageHandler{service: service, collector: collector}
}

// usageResponse は利用状況レスポンス。
type usageResponse struct {
	Entries []usage.Entry `json:"entries"`
	Top     []usage.Entry `json:"top"`
	Stale   []usage.Entry `json:"stale"`
}

// packingRequest はパッキングリスト作成リクエストのボディ。
type packingRequest struct {
	Dates []string `json:"dates"`
}

// GetUsage はアイテムごとの利用状況集計を返す。
// themeクエリでテーマ名による絞り込み、staleThresholdクエリでしきい値を指定できる。
// GET /api/usage
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	var themeFilter *theme.Theme
	if name := r.URL.Query().Get("theme"); name != "" {
		t, ok := theme.ByName(name)
		if !ok {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("不明なテーマ名です: "+name))
			return
		}
		themeFilter = &t
	}

	staleThreshold := usage.DefaultStaleThreshold
	if raw := r.URL.Query().Get("staleThreshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("staleThresholdは0以上の整数で指定してください"))
			return
		}
		staleThreshold = n
	}

	start := time.Now()
	summary, err := h.service.Compute(r.Context(), themeFilter)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if h.collector != nil {
		h.collector.RecordUsageComputeLatency(time.Since(start))
	}

	writeJSON(w, http.StatusOK, usageResponse{
		Entries: summary.Entries,
		Top:     summary.TopN(5),
		Stale:   summary.StaleItems(staleThreshold),
	})
}

// GetColorUsage は色ごとの所持アイテム数を返す。
// GET /api/usage/colors
func (h *UsageHandler) GetColorUsage(w http.ResponseWriter, r *http.Request) {
	colors, err := h.service.ColorUsage(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, colors)
}

// GetOldItems は4週間以上着ていないアイテムを返す。
// GET /api/usage/old
func (h *UsageHandler) GetOldItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.OldItems(r.Context(), time.Now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// CreatePackingList は指定日付群の計画からパッキングリストを作成する。
// POST /api/usage/packing
func (h *UsageHandler) CreatePackingList(w http.ResponseWriter, r *http.Request) {
	var req packingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if len(req.Dates) == 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("日付を1つ以上指定してください"))
		return
	}

	items, err := h.service.PackingList(r.Context(), req.Dates)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
