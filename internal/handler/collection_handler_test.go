package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/model"
)

// mockCollectionService はテスト用のCollectionServiceInterface実装。
type mockCollectionService struct {
	listFn   func(ctx context.Context) ([]model.Collection, error)
	getFn    func(ctx context.Context, id string) (*model.Collection, error)
	createFn func(ctx context.Context, name string) (*model.Collection, error)
	renameFn func(ctx context.Context, id, newName string) (*model.Collection, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockCollectionService) ListCollections(ctx context.Context) ([]model.Collection, error) {
	return m.listFn(ctx)
}

func (m *mockCollectionService) GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	return m.getFn(ctx, id)
}

func (m *mockCollectionService) CreateCollection(ctx context.Context, name string) (*model.Collection, error) {
	return m.createFn(ctx, name)
}

func (m *mockCollectionService) RenameCollection(ctx context.Context, id, newName string) (*model.Collection, error) {
	return m.renameFn(ctx, id, newName)
}

func (m *mockCollectionService) DeleteCollection(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// newCollectionTestRouter はコレクションルートのみを構成したルーターを返す。
func newCollectionTestRouter(svc CollectionServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewCollectionHandler(svc)

	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", h.ListCollections)
		r.Post("/", h.CreateCollection)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCollection)
			r.Patch("/", h.RenameCollection)
			r.Delete("/", h.DeleteCollection)
		})
	})

	return r
}

func TestCollectionHandler_CreateCollection(t *testing.T) {
	svc := &mockCollectionService{
		createFn: func(ctx context.Context, name string) (*model.Collection, error) {
			return &model.Collection{ID: "c1", Name: name}, nil
		},
	}
	router := newCollectionTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/collections", strings.NewReader(`{"name":"春コーデ"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var c model.Collection
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if c.Name != "春コーデ" {
		t.Errorf("name = %q, want %q", c.Name, "春コーデ")
	}
}

func TestCollectionHandler_CreateCollection_DuplicateName(t *testing.T) {
	svc := &mockCollectionService{
		createFn: func(ctx context.Context, name string) (*model.Collection, error) {
			return nil, model.NewDuplicateCollectionNameError(name)
		},
	}
	router := newCollectionTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/collections", strings.NewReader(`{"name":"春コーデ"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != model.ErrCodeDuplicateCollectionName {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeDuplicateCollectionName)
	}
}

func TestCollectionHandler_RenameCollection(t *testing.T) {
	svc := &mockCollectionService{
		renameFn: func(ctx context.Context, id, newName string) (*model.Collection, error) {
			return &model.Collection{ID: id, Name: newName}, nil
		},
	}
	router := newCollectionTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/collections/c1", strings.NewReader(`{"name":"夏コーデ"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var c model.Collection
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if c.Name != "夏コーデ" {
		t.Errorf("name = %q, want %q", c.Name, "夏コーデ")
	}
}

func TestCollectionHandler_DeleteCollection(t *testing.T) {
	var deletedID string
	svc := &mockCollectionService{
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	router := newCollectionTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/collections/c1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deletedID != "c1" {
		t.Errorf("deleted id = %q, want %q", deletedID, "c1")
	}
}

func TestCollectionHandler_GetCollection_NotFound(t *testing.T) {
	svc := &mockCollectionService{
		getFn: func(ctx context.Context, id string) (*model.Collection, error) {
			return nil, model.NewCollectionNotFoundError(id)
		},
	}
	router := newCollectionTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/collections/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}
}
