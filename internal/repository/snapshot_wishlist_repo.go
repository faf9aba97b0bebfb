package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// SnapshotWishlistRepo はスナップショットストアを使用したウィッシュリストリポジトリ。
type SnapshotWishlistRepo struct {
	store snapshot.Store
}

// NewSnapshotWishlistRepo はSnapshotWishlistRepoを生成する。
func NewSnapshotWishlistRepo(store snapshot.Store) *SnapshotWishlistRepo {
	return &SnapshotWishlistRepo{store: store}
}

// List は全ウィッシュを取得する。
func (r *SnapshotWishlistRepo) List(ctx context.Context) ([]model.WishItem, error) {
	doc, err := r.store.Load(ctx, snapshot.KeyWishlist)
	if err != nil {
		return nil, fmt.Errorf("ウィッシュリストの取得に失敗しました: %w", err)
	}
	return decodeWishes(doc)
}

// Create はウィッシュを追加する。
func (r *SnapshotWishlistRepo) Create(ctx context.Context, wish *model.WishItem) error {
	err := r.store.Update(ctx, snapshot.KeyWishlist, func(doc []byte) ([]byte, error) {
		wishes, err := decodeWishes(doc)
		if err != nil {
			return nil, err
		}
		wishes = append(wishes, *wish)
		return json.Marshal(wishes)
	})
	if err != nil {
		return fmt.Errorf("ウィッシュの追加に失敗しました: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのウィッシュを削除する。
func (r *SnapshotWishlistRepo) DeleteByID(ctx context.Context, id string) error {
	return r.store.Update(ctx, snapshot.KeyWishlist, func(doc []byte) ([]byte, error) {
		wishes, err := decodeWishes(doc)
		if err != nil {
			return nil, err
		}
		remaining := make([]model.WishItem, 0, len(wishes))
		found := false
		for _, w := range wishes {
			if w.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, w)
		}
		if !found {
			return nil, fmt.Errorf("ウィッシュの削除に失敗しました: %w", ErrNotFound)
		}
		return json.Marshal(remaining)
	})
}

func decodeWishes(doc []byte) ([]model.WishItem, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return []model.WishItem{}, nil
	}
	var wishes []model.WishItem
	if err := json.Unmarshal(doc, &wishes); err != nil {
		return nil, fmt.Errorf("ウィッシュリストドキュメントの解析に失敗しました: %w", err)
	}
	return wishes, nil
}
