package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// SnapshotBoardRepo はスナップショットストアを使用したボード写真リポジトリ。
type SnapshotBoardRepo struct {
	store snapshot.Store
}

// NewSnapshotBoardRepo はSnapshotBoardRepoを生成する。
func NewSnapshotBoardRepo(store snapshot.Store) *SnapshotBoardRepo {
	return &SnapshotBoardRepo{store: store}
}

// List は全写真を取得する。
func (r *SnapshotBoardRepo) List(ctx context.Context) ([]model.BoardPhoto, error) {
	doc, err := r.store.Load(ctx, snapshot.KeyBoard)
	if err != nil {
		return nil, fmt.Errorf("ボード写真一覧の取得に失敗しました: %w", err)
	}
	return decodePhotos(doc)
}

// Create は写真を追加する。
func (r *SnapshotBoardRepo) Create(ctx context.Context, photo *model.BoardPhoto) error {
	err := r.store.Update(ctx, snapshot.KeyBoard, func(doc []byte) ([]byte, error) {
		photos, err := decodePhotos(doc)
		if err != nil {
			return nil, err
		}
		photos = append(photos, *photo)
		return json.Marshal(photos)
	})
	if err != nil {
		return fmt.Errorf("写真の追加に失敗しました: %w", err)
	}
	return nil
}

// UpdateNotes は指定IDの写真のメモを更新する。
func (r *SnapshotBoardRepo) UpdateNotes(ctx context.Context, id, notes string) error {
	return r.store.Update(ctx, snapshot.KeyBoard, func(doc []byte) ([]byte, error) {
		photos, err := decodePhotos(doc)
		if err != nil {
			return nil, err
		}
		for i := range photos {
			if photos[i].ID != id {
				continue
			}
			photos[i].Notes = notes
			return json.Marshal(photos)
		}
		return nil, fmt.Errorf("写真メモの更新に失敗しました: %w", ErrNotFound)
	})
}

// DeleteByID は指定IDの写真を削除する。
func (r *SnapshotBoardRepo) DeleteByID(ctx context.Context, id string) error {
	return r.store.Update(ctx, snapshot.KeyBoard, func(doc []byte) ([]byte, error) {
		photos, err := decodePhotos(doc)
		if err != nil {
			return nil, err
		}
		remaining := make([]model.BoardPhoto, 0, len(photos))
		found := false
		for _, p := range photos {
			if p.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, p)
		}
		if !found {
			return nil, fmt.Errorf("写真の削除に失敗しました: %w", ErrNotFound)
		}
		return json.Marshal(remaining)
	})
}

func decodePhotos(doc []byte) ([]model.BoardPhoto, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return []model.BoardPhoto{}, nil
	}
	var photos []model.BoardPhoto
	if err := json.Unmarshal(doc, &photos); err != nil {
		return nil, fmt.Errorf("ボードドキュメントの解析に失敗しました: %w", err)
	}
	return photos, nil
}
