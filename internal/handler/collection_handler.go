package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/model"
)

// CollectionServiceInterface はコレクションハンドラーが必要とするサービスインターフェース。
type CollectionServiceInterface interface {
	// ListCollections は全コレクションを返す。
	ListCollections(ctx context.Context) ([]model.Collection, error)
	// GetCollection はコレクションを1件取得する。
	GetCollection(ctx context.Context, id string) (*model.Collection, error)
	// CreateCollection はコレクションを作成する。
	CreateCollection(ctx context.Context, name string) (*model.Collection, error)
	// RenameCollection はコレクション名を変更する。
	RenameCollection(ctx context.Context, id, newName string) (*model.Collection, error)
	// DeleteCollection はコレクションを削除し、参照するプランからIDを外す。
	DeleteCollection(ctx context.Context, id string) error
}

// CollectionHandler はコレクション管理のHTTPハンドラー。
type CollectionHandler struct {
	service CollectionServiceInterface
}

// NewCollectionHandler はCollectionHandlerを生成する。
func NewCollectionHandler(service CollectionServiceInterface) *CollectionHandler {
	return &CollectionHandler{service: service}
}

// collectionNameRequest はコレクション作成・改名リクエストのボディ。
type collectionNameRequest struct {
	Name string `json:"name"`
}

// ListCollections は全コレクションの一覧を返す。
// GET /api/collections
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListCollections(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collections)
}

// GetCollection はコレクション詳細を取得する。
// GET /api/collections/:id
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.service.GetCollection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collection)
}

// CreateCollection はコレクションを新規作成する。
// POST /api/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	collection, err := h.service.CreateCollection(r.Context(), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, collection)
}

// RenameCollection はコレクション名を変更する。
// PATCH /api/collections/:id
func (h *CollectionHandler) RenameCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	collection, err := h.service.RenameCollection(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collection)
}

// DeleteCollection はコレクションを削除する。
// 参照しているプランのcollectionIdも同時に外れる。
// DELETE /api/collections/:id
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
