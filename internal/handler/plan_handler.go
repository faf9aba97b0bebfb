package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/model"
)

// PlanServiceInterface はプランハンドラーが必要とするサービスインターフェース。
type PlanServiceInterface interface {
	// ListPlans は全プランを返す。
	ListPlans(ctx context.Context) (map[model.DateKey]*model.PlannedOutfit, error)
	// GetOutfit は指定日付のコーディネートを取得する。
	GetOutfit(ctx context.Context, rawDate string) (*model.PlannedOutfit, error)
	// SetOutfit は指定日付のコーディネートを置き換える。
	SetOutfit(ctx context.Context, rawDate string, items []model.ItemID, meta model.OutfitMeta) (*model.PlannedOutfit, error)
	// AddItems は指定日付のコーディネートにアイテムを追加する。
	AddItems(ctx context.Context, rawDate string, items []model.ItemID) (*model.PlannedOutfit, error)
	// RemoveItems は指定日付のコーディネートからアイテムを取り除く。
	RemoveItems(ctx context.Context, rawDate string, items []model.ItemID) (*model.PlannedOutfit, error)
	// ClearOutfit は指定日付のコーディネートを空にする。
	ClearOutfit(ctx context.Context, rawDate string) (*model.PlannedOutfit, error)
	// DeleteOutfit は指定日付のプランレコード自体を削除する。
	DeleteOutfit(ctx context.Context, rawDate string) error
}

// PlanHandler はコーディネート計画のHTTPハンドラー。
type PlanHandler struct {
	service PlanServiceInterface
}

// NewPlanHandler はPlanHandlerを生成する。
func NewPlanHandler(service PlanServiceInterface) *PlanHandler {
	return &PlanHandler{service: service}
}

// setOutfitRequest はコーディネート設定リクエストのボディ。
type setOutfitRequest struct {
	Items        []model.ItemID `json:"items"`
	CollectionID *string        `json:"collectionId"`
	Notes        string         `json:"notes"`
	Rating       string         `json:"rating"`
}

// outfitItemsRequest はアイテム追加・削除リクエストのボディ。
type outfitItemsRequest struct {
	Items []model.ItemID `json:"items"`
}

// ListPlans は全プランの一覧を返す。
// GET /api/plans
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plans)
}

// GetOutfit は指定日付のコーディネートを取得する。
// 存在しない日付には空のコーディネートを返す。
// GET /api/plans/:dateKey
func (h *PlanHandler) GetOutfit(w http.ResponseWriter, r *http.Request) {
	outfit, err := h.service.GetOutfit(r.Context(), chi.URLParam(r, "dateKey"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outfit)
}

// SetOutfit は指定日付のコーディネートを置き換える。
// PUT /api/plans/:dateKey
func (h *PlanHandler) SetOutfit(w http.ResponseWriter, r *http.Request) {
	var req setOutfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	outfit, err := h.service.SetOutfit(r.Context(), chi.URLParam(r, "dateKey"), req.Items, model.OutfitMeta{
		CollectionID: req.CollectionID,
		Notes:        req.Notes,
		Rating:       req.Rating,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outfit)
}

// AddItems はコーディネートにアイテムを追加する。
// POST /api/plans/:dateKey/items
func (h *PlanHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req outfitItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	outfit, err := h.service.AddItems(r.Context(), chi.URLParam(r, "dateKey"), req.Items)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outfit)
}

// RemoveItems はコーディネートからアイテムを取り除く。
// レコード自体は空になっても保持される。
// DELETE /api/plans/:dateKey/items
func (h *PlanHandler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var req outfitItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	outfit, err := h.service.RemoveItems(r.Context(), chi.URLParam(r, "dateKey"), req.Items)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outfit)
}

// ClearOutfit はコーディネートの内容をすべて消去する。
// アイテムとメタデータを空にした空レコードが残る。
// POST /api/plans/:dateKey/clear
func (h *PlanHandler) ClearOutfit(w http.ResponseWriter, r *http.Request) {
	outfit, err := h.service.ClearOutfit(r.Context(), chi.URLParam(r, "dateKey"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outfit)
}

// DeleteOutfit はプランレコード自体を削除する。
// DELETE /api/plans/:dateKey
func (h *PlanHandler) DeleteOutfit(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOutfit(r.Context(), chi.URLParam(r, "dateKey")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
