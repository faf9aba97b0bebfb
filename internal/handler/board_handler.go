package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/model"
)

// BoardServiceInterface はアウトフィットボードハンドラーが必要とするサービスインターフェース。
type BoardServiceInterface interface {
	// ListPhotos は全写真を返す。
	ListPhotos(ctx context.Context) ([]model.BoardPhoto, error)
	// AddPhotos はdata URL形式の写真を追加する。
	AddPhotos(ctx context.Context, images []string, notes string) ([]model.BoardPhoto, error)
	// RegisterRemoteImage は外部URLから画像を取得して写真として登録する。
	RegisterRemoteImage(ctx context.Context, imageURL, notes string) (*model.BoardPhoto, error)
	// UpdateNotes は写真のメモを更新する。
	UpdateNotes(ctx context.Context, id, notes string) error
	// DeletePhoto は写真を削除する。
	DeletePhoto(ctx context.Context, id string) error
}

// BoardHandler はアウトフィットボードのHTTPハンドラー。
type BoardHandler struct {
	service BoardServiceInterface
}

// NewBoardHandler はBoardHandlerを生成する。
func NewBoardHandler(service BoardServiceInterface) *BoardHandler {
	return &BoardHandler{service: service}
}

// addPhotosRequest は写真追加リクエストのボディ。
type addPhotosRequest struct {
	Images []string `json:"images"`
	Notes  string   `json:"notes"`
}

// registerRemoteImageRequest は外部画像登録リクエストのボディ。
type registerRemoteImageRequest struct {
	URL   string `json:"url"`
	Notes string `json:"notes"`
}

// updateNotesRequest はメモ更新リクエストのボディ。
type updateNotesRequest struct {
	Notes string `json:"notes"`
}

// ListPhotos はボードの写真一覧を返す。
// GET /api/board
func (h *BoardHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.ListPhotos(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, photos)
}

// AddPhotos はdata URL形式の写真を追加する。複数枚に共通のメモを付けられる。
// POST /api/board
func (h *BoardHandler) AddPhotos(w http.ResponseWriter, r *http.Request) {
	var req addPhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	photos, err := h.service.AddPhotos(r.Context(), req.Images, req.Notes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, photos)
}

// RegisterRemoteImage は外部URLの画像を取得してボードに登録する。
// 取得はSSRFガードを通過したURLに限られる。
// POST /api/board/remote
func (h *BoardHandler) RegisterRemoteImage(w http.ResponseWriter, r *http.Request) {
	var req registerRemoteImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	photo, err := h.service.RegisterRemoteImage(r.Context(), req.URL, req.Notes)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, photo)
}

// UpdateNotes は写真のメモを更新する。
// PATCH /api/board/:id
func (h *BoardHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if err := h.service.UpdateNotes(r.Context(), chi.URLParam(r, "id"), req.Notes); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeletePhoto は写真を削除する。
// DELETE /api/board/:id
func (h *BoardHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePhoto(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
