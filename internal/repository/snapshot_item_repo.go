package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// SnapshotItemRepo はスナップショットストアを使用したアイテムリポジトリ。
// ドキュメントはアイテムのJSON配列として保存される。
type SnapshotItemRepo struct {
	store snapshot.Store
}

// NewSnapshotItemRepo はSnapshotItemRepoを生成する。
func NewSnapshotItemRepo(store snapshot.Store) *SnapshotItemRepo {
	return &SnapshotItemRepo{store: store}
}

// List は全アイテムを格納順で取得する。
func (r *SnapshotItemRepo) List(ctx context.Context) ([]model.Item, error) {
	doc, err := r.store.Load(ctx, snapshot.KeyItems)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}
	return decodeItems(doc)
}

// FindByID は指定IDのアイテムを取得する。見つからない場合はnilを返す。
func (r *SnapshotItemRepo) FindByID(ctx context.Context, id model.ItemID) (*model.Item, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	canonical := model.CanonicalItemID(string(id))
	for i := range items {
		if model.CanonicalItemID(string(items[i].ID)) == canonical {
			return &items[i], nil
		}
	}
	return nil, nil
}

// Create はアイテムを追加する。
func (r *SnapshotItemRepo) Create(ctx context.Context, item *model.Item) error {
	err := r.store.Update(ctx, snapshot.KeyItems, func(doc []byte) ([]byte, error) {
		items, err := decodeItems(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
		return json.Marshal(items)
	})
	if err != nil {
		return fmt.Errorf("アイテムの作成に失敗しました: %w", err)
	}
	return nil
}

// Mutate は指定IDのアイテムを原子的に変更する。
func (r *SnapshotItemRepo) Mutate(ctx context.Context, id model.ItemID, fn func(*model.Item) error) error {
	canonical := model.CanonicalItemID(string(id))
	return r.store.Update(ctx, snapshot.KeyItems, func(doc []byte) ([]byte, error) {
		items, err := decodeItems(doc)
		if err != nil {
			return nil, err
		}
		for i := range items {
			if model.CanonicalItemID(string(items[i].ID)) != canonical {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			return json.Marshal(items)
		}
		return nil, fmt.Errorf("アイテムの変更に失敗しました: %w", ErrNotFound)
	})
}

// MutateAll は全アイテムに対する一括変更を原子的に実行する。
func (r *SnapshotItemRepo) MutateAll(ctx context.Context, fn func([]model.Item) ([]model.Item, error)) error {
	return r.store.Update(ctx, snapshot.KeyItems, func(doc []byte) ([]byte, error) {
		items, err := decodeItems(doc)
		if err != nil {
			return nil, err
		}
		updated, err := fn(items)
		if err != nil {
			return nil, err
		}
		return json.Marshal(updated)
	})
}

// DeleteByID は指定IDのアイテムを削除する。プランへのカスケードは行わない。
func (r *SnapshotItemRepo) DeleteByID(ctx context.Context, id model.ItemID) error {
	canonical := model.CanonicalItemID(string(id))
	return r.store.Update(ctx, snapshot.KeyItems, func(doc []byte) ([]byte, error) {
		items, err := decodeItems(doc)
		if err != nil {
			return nil, err
		}
		remaining := make([]model.Item, 0, len(items))
		found := false
		for _, item := range items {
			if model.CanonicalItemID(string(item.ID)) == canonical {
				found = true
				continue
			}
			remaining = append(remaining, item)
		}
		if !found {
			return nil, fmt.Errorf("アイテムの削除に失敗しました: %w", ErrNotFound)
		}
		return json.Marshal(remaining)
	})
}

// decodeItems はアイテムドキュメントをデコードする。nil・nullは空として扱う。
func decodeItems(doc []byte) ([]model.Item, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return []model.Item{}, nil
	}
	var items []model.Item
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, fmt.Errorf("アイテムドキュメントの解析に失敗しました: %w", err)
	}
	return items, nil
}
