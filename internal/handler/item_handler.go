package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/closet"
	"github.com/hitoshi/closetman/internal/model"
)

// ItemServiceInterface はアイテムハンドラーが必要とするサービスインターフェース。
type ItemServiceInterface interface {
	// ListItems は全アイテムを返す。
	ListItems(ctx context.Context) ([]model.Item, error)
	// GetItem はアイテムを1件取得する。
	GetItem(ctx context.Context, id model.ItemID) (*model.Item, error)
	// CreateItem は新しいアイテムを作成する。
	CreateItem(ctx context.Context, input closet.CreateInput) (*model.Item, error)
	// DeleteItem はアイテムを削除する。
	DeleteItem(ctx context.Context, id model.ItemID) error
	// SetFavorite はお気に入りフラグを設定する。
	SetFavorite(ctx context.Context, id model.ItemID, favorite bool) (*model.Item, error)
	// MarkWorn は着用日を記録する。
	MarkWorn(ctx context.Context, id model.ItemID, when time.Time) (*model.Item, error)
}

// ItemHandler はワードローブアイテム管理のHTTPハンドラー。
type ItemHandler struct {
	service ItemServiceInterface
}

// NewItemHandler はItemHandlerを生成する。
func NewItemHandler(service ItemServiceInterface) *ItemHandler {
	return &ItemHandler{service: service}
}

// createItemRequest はアイテム作成リクエストのボディ。
type createItemRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Colors   []string `json:"colors"`
	Image    string   `json:"image"`
}

// setFavoriteRequest はお気に入り設定リクエストのボディ。
type setFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// ListItems は全アイテムの一覧を返す。
// GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// GetItem はアイテム詳細を取得する。
// GET /api/items/:id
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := model.ItemID(chi.URLParam(r, "id"))

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// CreateItem はアイテムを新規作成する。
// POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	item, err := h.service.CreateItem(r.Context(), closet.CreateInput{
		Name:     req.Name,
		Category: model.Category(req.Category),
		Colors:   req.Colors,
		Image:    req.Image,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// DeleteItem はアイテムを削除する。
// DELETE /api/items/:id
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := model.ItemID(chi.URLParam(r, "id"))

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetFavorite はお気に入りフラグを設定する。
// PUT /api/items/:id/favorite
func (h *ItemHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id := model.ItemID(chi.URLParam(r, "id"))

	var req setFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	item, err := h.service.SetFavorite(r.Context(), id, req.Favorite)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// MarkWorn は着用を記録する。
// POST /api/items/:id/worn
func (h *ItemHandler) MarkWorn(w http.ResponseWriter, r *http.Request) {
	id := model.ItemID(chi.URLParam(r, "id"))

	item, err := h.service.MarkWorn(r.Context(), id, time.Now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
