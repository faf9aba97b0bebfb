package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// SnapshotCollectionRepo はスナップショットストアを使用したコレクションリポジトリ。
// ドキュメントはコレクションのJSON配列として保存される。
type SnapshotCollectionRepo struct {
	store snapshot.Store
}

// NewSnapshotCollectionRepo はSnapshotCollectionRepoを生成する。
func NewSnapshotCollectionRepo(store snapshot.Store) *SnapshotCollectionRepo {
	return &SnapshotCollectionRepo{store: store}
}

// List は全コレクションを取得する。
func (r *SnapshotCollectionRepo) List(ctx context.Context) ([]model.Collection, error) {
	doc, err := r.store.Load(ctx, snapshot.KeyCollections)
	if err != nil {
		return nil, fmt.Errorf("コレクション一覧の取得に失敗しました: %w", err)
	}
	return decodeCollections(doc)
}

// FindByID は指定IDのコレクションを取得する。見つからない場合はnilを返す。
func (r *SnapshotCollectionRepo) FindByID(ctx context.Context, id string) (*model.Collection, error) {
	collections, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range collections {
		if collections[i].ID == id {
			return &collections[i], nil
		}
	}
	return nil, nil
}

// Create はコレクションを追加する。
// 名前の重複判定は変更サイクルの内側で行い、確認と追加の間に
// 別の作成が割り込むことを防ぐ。
func (r *SnapshotCollectionRepo) Create(ctx context.Context, collection *model.Collection) error {
	return r.store.Update(ctx, snapshot.KeyCollections, func(doc []byte) ([]byte, error) {
		collections, err := decodeCollections(doc)
		if err != nil {
			return nil, err
		}
		for _, c := range collections {
			if strings.EqualFold(c.Name, collection.Name) {
				return nil, fmt.Errorf("コレクションの作成に失敗しました: %w", ErrDuplicateName)
			}
		}
		collections = append(collections, *collection)
		return json.Marshal(collections)
	})
}

// Rename は指定IDのコレクション名を変更する。重複判定は自身を除く。
func (r *SnapshotCollectionRepo) Rename(ctx context.Context, id, newName string) error {
	return r.store.Update(ctx, snapshot.KeyCollections, func(doc []byte) ([]byte, error) {
		collections, err := decodeCollections(doc)
		if err != nil {
			return nil, err
		}
		target := -1
		for i, c := range collections {
			if c.ID == id {
				target = i
				continue
			}
			if strings.EqualFold(c.Name, newName) {
				return nil, fmt.Errorf("コレクション名の変更に失敗しました: %w", ErrDuplicateName)
			}
		}
		if target < 0 {
			return nil, fmt.Errorf("コレクション名の変更に失敗しました: %w", ErrNotFound)
		}
		collections[target].Name = newName
		return json.Marshal(collections)
	})
}

// DeleteCascade は指定IDのコレクションを削除し、参照している全計画の
// CollectionIDを解除する。両ストアの変更は単一のスナップショット
// トランザクションで行われ、読み取り側が中間状態（コレクションは消えたが
// 計画がまだ参照している状態）を観測することはない。
func (r *SnapshotCollectionRepo) DeleteCascade(ctx context.Context, id string) error {
	keys := []string{snapshot.KeyCollections, snapshot.KeyPlans}
	return r.store.UpdateMany(ctx, keys, func(docs map[string][]byte) (map[string][]byte, error) {
		collections, err := decodeCollections(docs[snapshot.KeyCollections])
		if err != nil {
			return nil, err
		}
		remaining := make([]model.Collection, 0, len(collections))
		found := false
		for _, c := range collections {
			if c.ID == id {
				found = true
				continue
			}
			remaining = append(remaining, c)
		}
		if !found {
			return nil, fmt.Errorf("コレクションの削除に失敗しました: %w", ErrNotFound)
		}
		collectionsDoc, err := json.Marshal(remaining)
		if err != nil {
			return nil, err
		}

		plansDoc, err := detachCollectionFromPlans(docs[snapshot.KeyPlans], id)
		if err != nil {
			return nil, err
		}

		return map[string][]byte{
			snapshot.KeyCollections: collectionsDoc,
			snapshot.KeyPlans:       plansDoc,
		}, nil
	})
}

// detachCollectionFromPlans は計画ドキュメント中の指定コレクション参照を解除する。
// オブジェクト形式以外の歴史的レコードはコレクション参照を持たないため手を付けない。
func detachCollectionFromPlans(doc []byte, collectionID string) ([]byte, error) {
	raw, err := decodePlanDoc(doc)
	if err != nil {
		return nil, err
	}

	for key, value := range raw {
		var obj map[string]any
		if err := json.Unmarshal(value, &obj); err != nil {
			continue
		}
		ref, ok := obj["collectionId"].(string)
		if !ok || ref != collectionID {
			continue
		}
		obj["collectionId"] = nil
		encoded, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("計画レコードの更新に失敗しました: %w", err)
		}
		raw[key] = encoded
	}
	return json.Marshal(raw)
}

// decodeCollections はコレクションドキュメントをデコードする。nil・nullは空として扱う。
func decodeCollections(doc []byte) ([]model.Collection, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return []model.Collection{}, nil
	}
	var collections []model.Collection
	if err := json.Unmarshal(doc, &collections); err != nil {
		return nil, fmt.Errorf("コレクションドキュメントの解析に失敗しました: %w", err)
	}
	return collections, nil
}
