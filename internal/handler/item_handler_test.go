package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/closet"
	"github.com/hitoshi/closetman/internal/model"
)

// mockItemService はテスト用のItemServiceInterface実装。
type mockItemService struct {
	listItemsFn   func(ctx context.Context) ([]model.Item, error)
	getItemFn     func(ctx context.Context, id model.ItemID) (*model.Item, error)
	createItemFn  func(ctx context.Context, input closet.CreateInput) (*model.Item, error)
	deleteItemFn  func(ctx context.Context, id model.ItemID) error
	setFavoriteFn func(ctx context.Context, id model.ItemID, favorite bool) (*model.Item, error)
	markWornFn    func(ctx context.Context, id model.ItemID, when time.Time) (*model.Item, error)
}

func (m *mockItemService) ListItems(ctx context.Context) ([]model.Item, error) {
	return m.listItemsFn(ctx)
}

func (m *mockItemService) GetItem(ctx context.Context, id model.ItemID) (*model.Item, error) {
	return m.getItemFn(ctx, id)
}

func (m *mockItemService) CreateItem(ctx context.Context, input closet.CreateInput) (*model.Item, error) {
	return m.createItemFn(ctx, input)
}

func (m *mockItemService) DeleteItem(ctx context.Context, id model.ItemID) error {
	return m.deleteItemFn(ctx, id)
}

func (m *mockItemService) SetFavorite(ctx context.Context, id model.ItemID, favorite bool) (*model.Item, error) {
	return m.setFavoriteFn(ctx, id, favorite)
}

func (m *mockItemService) MarkWorn(ctx context.Context, id model.ItemID, when time.Time) (*model.Item, error) {
	return m.markWornFn(ctx, id, when)
}

// newItemTestRouter はアイテムルートのみを構成したルーターを返す。
func newItemTestRouter(svc ItemServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewItemHandler(svc)

	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetItem)
			r.Delete("/", h.DeleteItem)
			r.Put("/favorite", h.SetFavorite)
			r.Post("/worn", h.MarkWorn)
		})
	})

	return r
}

func TestItemHandler_ListItems(t *testing.T) {
	svc := &mockItemService{
		listItemsFn: func(ctx context.Context) ([]model.Item, error) {
			return []model.Item{
				{ID: "1", Name: "白シャツ", Category: model.CategoryTops, Colors: []string{"white"}},
				{ID: "2", Name: "デニム", Category: model.CategoryBottoms, Colors: []string{"blue"}},
			}, nil
		},
	}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var items []model.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
	if items[0].Name != "白シャツ" {
		t.Errorf("items[0].Name = %q, want %q", items[0].Name, "白シャツ")
	}
}

func TestItemHandler_CreateItem(t *testing.T) {
	var captured closet.CreateInput
	svc := &mockItemService{
		createItemFn: func(ctx context.Context, input closet.CreateInput) (*model.Item, error) {
			captured = input
			return &model.Item{
				ID:       "100",
				Name:     input.Name,
				Category: input.Category,
				Colors:   []string{"white"},
				IsNew:    true,
			}, nil
		},
	}
	router := newItemTestRouter(svc)

	body := `{"name":"白シャツ","category":"tops","colors":["White"],"image":"data:image/png;base64,xxx"}`
	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	if captured.Name != "白シャツ" || captured.Category != model.CategoryTops {
		t.Errorf("captured input = %+v", captured)
	}

	var item model.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !item.IsNew {
		t.Error("created item should have isNew = true")
	}
}

func TestItemHandler_CreateItem_InvalidBody(t *testing.T) {
	svc := &mockItemService{}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("{invalid"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want %q", body.Code, "INVALID_REQUEST")
	}
}

func TestItemHandler_CreateItem_ValidationError(t *testing.T) {
	svc := &mockItemService{
		createItemFn: func(ctx context.Context, input closet.CreateInput) (*model.Item, error) {
			return nil, model.NewValidationError("名前が空です")
		},
	}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"name":""}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestItemHandler_GetItem_NotFound(t *testing.T) {
	svc := &mockItemService{
		getItemFn: func(ctx context.Context, id model.ItemID) (*model.Item, error) {
			return nil, model.NewItemNotFoundError(id)
		},
	}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/items/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var body apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Code != model.ErrCodeItemNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeItemNotFound)
	}
}

func TestItemHandler_DeleteItem(t *testing.T) {
	var deletedID model.ItemID
	svc := &mockItemService{
		deleteItemFn: func(ctx context.Context, id model.ItemID) error {
			deletedID = id
			return nil
		},
	}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/items/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusNoContent)
	}
	if deletedID != "42" {
		t.Errorf("deleted id = %q, want %q", deletedID, "42")
	}
}

func TestItemHandler_SetFavorite(t *testing.T) {
	svc := &mockItemService{
		setFavoriteFn: func(ctx context.Context, id model.ItemID, favorite bool) (*model.Item, error) {
			return &model.Item{ID: id, Name: "白シャツ", IsFavorite: favorite}, nil
		},
	}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/items/1/favorite", strings.NewReader(`{"favorite":true}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var item model.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if !item.IsFavorite {
		t.Error("isFavorite should be true")
	}
}

func TestItemHandler_MarkWorn(t *testing.T) {
	svc := &mockItemService{
		markWornFn: func(ctx context.Context, id model.ItemID, when time.Time) (*model.Item, error) {
			return &model.Item{ID: id, Name: "デニム", LastWorn: &when}, nil
		},
	}
	router := newItemTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/items/2/worn", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var item model.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if item.LastWorn == nil {
		t.Error("lastWorn should be set")
	}
}
