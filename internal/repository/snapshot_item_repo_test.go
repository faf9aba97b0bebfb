package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// newTestStore はテスト用のファイルスナップショットストアを生成する
func newTestStore(t *testing.T) snapshot.Store {
	t.Helper()
	store, err := snapshot.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return store
}

// TestSnapshotItemRepoCreateAndList は作成したアイテムが一覧に現れることを確認する
func TestSnapshotItemRepoCreateAndList(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))
	ctx := context.Background()

	item := &model.Item{
		ID:        model.NewItemID(),
		Name:      "白シャツ",
		Category:  model.CategoryTops,
		Colors:    []string{"white"},
		IsNew:     true,
		AddedDate: time.Now(),
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, 期待値 1", len(items))
	}
	if items[0].Name != "白シャツ" {
		t.Errorf("Name = %s, 期待値 白シャツ", items[0].Name)
	}
}

// TestSnapshotItemRepoFindByIDCanonical は数値風IDの表記ゆれが同一視されることを確認する
func TestSnapshotItemRepoFindByIDCanonical(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))
	ctx := context.Background()

	item := &model.Item{ID: model.ItemID("007"), Name: "デニム", Category: model.CategoryBottoms, Colors: []string{"blue"}}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(ctx, model.ItemID("7"))
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found == nil {
		t.Fatal("表記ゆれIDでアイテムが見つからない")
	}
	if found.Name != "デニム" {
		t.Errorf("Name = %s, 期待値 デニム", found.Name)
	}
}

// TestSnapshotItemRepoFindByIDMissing は未知のIDでnilが返ることを確認する
func TestSnapshotItemRepoFindByIDMissing(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))

	found, err := repo.FindByID(context.Background(), model.ItemID("unknown"))
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found != nil {
		t.Errorf("FindByID() = %+v, 期待値 nil", found)
	}
}

// TestSnapshotItemRepoMutate はアイテムの原子的変更を確認する
func TestSnapshotItemRepoMutate(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))
	ctx := context.Background()

	item := &model.Item{ID: model.ItemID("1"), Name: "コート", Category: model.CategoryJackets, Colors: []string{"brown"}}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Mutate(ctx, item.ID, func(i *model.Item) error {
		i.IsFavorite = true
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	found, err := repo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !found.IsFavorite {
		t.Error("IsFavoriteが更新されていない")
	}
}

// TestSnapshotItemRepoMutateMissing は未知のIDの変更がErrNotFoundを返すことを確認する
func TestSnapshotItemRepoMutateMissing(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))

	err := repo.Mutate(context.Background(), model.ItemID("999"), func(*model.Item) error { return nil })
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Mutate() error = %v, 期待値 ErrNotFound", err)
	}
}

// TestSnapshotItemRepoDelete は削除と存在しないIDのエラーを確認する
func TestSnapshotItemRepoDelete(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))
	ctx := context.Background()

	item := &model.Item{ID: model.ItemID("1"), Name: "スカート", Category: model.CategoryBottoms, Colors: []string{"pink"}}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.DeleteByID(ctx, item.ID); err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("削除後のlen(items) = %d, 期待値 0", len(items))
	}

	if err := repo.DeleteByID(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("二重削除のerror = %v, 期待値 ErrNotFound", err)
	}
}

// TestSnapshotItemRepoMutateAll は全件一括変更を確認する
func TestSnapshotItemRepoMutateAll(t *testing.T) {
	repo := NewSnapshotItemRepo(newTestStore(t))
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		item := &model.Item{ID: model.NewItemID(), Name: name, Category: model.CategoryTops, Colors: []string{"white"}, IsNew: true}
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	err := repo.MutateAll(ctx, func(items []model.Item) ([]model.Item, error) {
		for i := range items {
			items[i].IsNew = false
		}
		return items, nil
	})
	if err != nil {
		t.Fatalf("MutateAll() error = %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, item := range items {
		if item.IsNew {
			t.Errorf("アイテム %s のIsNewが解除されていない", item.Name)
		}
	}
}
