package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/wishlist"
)

// WishlistServiceInterface はウィッシュリストハンドラーが必要とするサービスインターフェース。
type WishlistServiceInterface interface {
	// ListWishes は全ウィッシュを返す。
	ListWishes(ctx context.Context) ([]model.WishItem, error)
	// AddWish はウィッシュを追加する。
	AddWish(ctx context.Context, input wishlist.AddInput) (*model.WishItem, error)
	// RemoveWish はウィッシュを削除する。
	RemoveWish(ctx context.Context, id string) error
	// Suggest はワードローブの不足分析とウィッシュリストを返す。
	Suggest(ctx context.Context) (*wishlist.Suggestions, error)
}

// WishlistHandler はウィッシュリスト管理のHTTPハンドラー。
type WishlistHandler struct {
	service WishlistServiceInterface
}

// NewWishlistHandler はWishlistHandlerを生成する。
func NewWishlistHandler(service WishlistServiceInterface) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// addWishRequest はウィッシュ追加リクエストのボディ。
type addWishRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
}

// ListWishes はウィッシュリストの一覧を返す。
// GET /api/wishlist
func (h *WishlistHandler) ListWishes(w http.ResponseWriter, r *http.Request) {
	wishes, err := h.service.ListWishes(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wishes)
}

// AddWish はウィッシュを追加する。
// POST /api/wishlist
func (h *WishlistHandler) AddWish(w http.ResponseWriter, r *http.Request) {
	var req addWishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	wish, err := h.service.AddWish(r.Context(), wishlist.AddInput{
		Name:     req.Name,
		Category: req.Category,
		Color:    req.Color,
		Notes:    req.Notes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, wish)
}

// RemoveWish はウィッシュを削除する。
// DELETE /api/wishlist/:id
func (h *WishlistHandler) RemoveWish(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveWish(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Suggest はワードローブの不足カテゴリ・手薄な色の提案を返す。
// GET /api/wishlist/suggestions
func (h *WishlistHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.service.Suggest(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}
