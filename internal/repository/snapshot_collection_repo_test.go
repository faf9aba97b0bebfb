package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// TestSnapshotCollectionRepoCreateDuplicate は大文字小文字を区別しない重複判定を確認する
func TestSnapshotCollectionRepoCreateDuplicate(t *testing.T) {
	repo := NewSnapshotCollectionRepo(newTestStore(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Collection{ID: "c1", Name: "Summer"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, &model.Collection{ID: "c2", Name: "SUMMER"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("重複作成のerror = %v, 期待値 ErrDuplicateName", err)
	}
}

// TestSnapshotCollectionRepoRename は名前変更と自身を除いた重複判定を確認する
func TestSnapshotCollectionRepoRename(t *testing.T) {
	repo := NewSnapshotCollectionRepo(newTestStore(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Collection{ID: "c1", Name: "夏"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &model.Collection{ID: "c2", Name: "冬"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 自身と同じ名前への変更は重複扱いにしない
	if err := repo.Rename(ctx, "c1", "夏"); err != nil {
		t.Errorf("同名へのRename() error = %v", err)
	}

	if err := repo.Rename(ctx, "c1", "冬"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("重複名へのRename() error = %v, 期待値 ErrDuplicateName", err)
	}

	if err := repo.Rename(ctx, "c9", "春"); !errors.Is(err, ErrNotFound) {
		t.Errorf("未知IDのRename() error = %v, 期待値 ErrNotFound", err)
	}

	if err := repo.Rename(ctx, "c1", "春"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	renamed, err := repo.FindByID(ctx, "c1")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if renamed.Name != "春" {
		t.Errorf("Name = %s, 期待値 春", renamed.Name)
	}
}

// TestSnapshotCollectionRepoDeleteCascade は削除時に計画のコレクション参照が解除されることを確認する
func TestSnapshotCollectionRepoDeleteCascade(t *testing.T) {
	store := newTestStore(t)
	repo := NewSnapshotCollectionRepo(store)
	planRepo := NewSnapshotPlanRepo(store)
	ctx := context.Background()

	if err := repo.Create(ctx, &model.Collection{ID: "c1", Name: "通勤"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	seedPlans(t, store, `{
		"2026-01-05": {"items": ["1"], "collectionId": "c1"},
		"2026-01-06": {"items": ["2"], "collectionId": "c2"},
		"2026-01-07": ["3"]
	}`)

	if err := repo.DeleteCascade(ctx, "c1"); err != nil {
		t.Fatalf("DeleteCascade() error = %v", err)
	}

	collections, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(collections) != 0 {
		t.Errorf("削除後のlen(collections) = %d, 期待値 0", len(collections))
	}

	plans, err := planRepo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if plans["2026-01-05"].CollectionID != nil {
		t.Error("削除したコレクションへの参照が解除されていない")
	}
	if plans["2026-01-06"].CollectionID == nil || *plans["2026-01-06"].CollectionID != "c2" {
		t.Error("無関係なコレクション参照が変更されている")
	}
	if len(plans["2026-01-07"].Items) != 1 {
		t.Error("歴史的形式のレコードが壊れている")
	}
}

// TestSnapshotCollectionRepoDeleteCascadeMissing は未知IDの削除がErrNotFoundを返すことを確認する
func TestSnapshotCollectionRepoDeleteCascadeMissing(t *testing.T) {
	store := newTestStore(t)
	repo := NewSnapshotCollectionRepo(store)
	seedPlans(t, store, `{"2026-01-05": {"items": ["1"], "collectionId": "c1"}}`)
	ctx := context.Background()

	if err := repo.DeleteCascade(ctx, "c9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteCascade() error = %v, 期待値 ErrNotFound", err)
	}

	// 失敗時は計画側も書き換えられない
	doc, err := store.Load(ctx, snapshot.KeyPlans)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	raw, err := decodePlanDoc(doc)
	if err != nil {
		t.Fatalf("decodePlanDoc() error = %v", err)
	}
	if len(raw) != 1 {
		t.Errorf("len(raw) = %d, 期待値 1", len(raw))
	}
}
