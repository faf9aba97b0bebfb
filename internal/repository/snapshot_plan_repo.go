package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/snapshot"
)

// SnapshotPlanRepo はスナップショットストアを使用した計画リポジトリ。
// ドキュメントは日付キーから計画値へのJSONオブジェクト。値には歴史的な
// 複数のエンコーディング（配列、カンマ区切り文字列、単一オブジェクト等）が
// 混在しうるため、読み取りはすべて正規化境界を通る。
type SnapshotPlanRepo struct {
	store snapshot.Store

	// ShapeObserver は歴史的形式のレコードを読み取った際に形式ラベルとともに
	// 呼ばれる。メトリクス計上用。nilの場合は何もしない。
	ShapeObserver func(shape string)
}

// NewSnapshotPlanRepo はSnapshotPlanRepoを生成する。
func NewSnapshotPlanRepo(store snapshot.Store) *SnapshotPlanRepo {
	return &SnapshotPlanRepo{store: store}
}

// planRecord は計画値の正規形エンコーディング。
type planRecord struct {
	Items        []model.ItemID `json:"items"`
	CollectionID *string        `json:"collectionId"`
	Notes        string         `json:"notes"`
	Rating       string         `json:"rating"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// GetAll は全計画を正規形の日付キーつきで取得する。
func (r *SnapshotPlanRepo) GetAll(ctx context.Context) (map[model.DateKey]*model.PlannedOutfit, error) {
	doc, err := r.store.Load(ctx, snapshot.KeyPlans)
	if err != nil {
		return nil, fmt.Errorf("計画一覧の取得に失敗しました: %w", err)
	}
	raw, err := decodePlanDoc(doc)
	if err != nil {
		return nil, err
	}

	result := make(map[model.DateKey]*model.PlannedOutfit, len(raw))
	// 同一日付の歴史的表記が複数ある場合に結果を決定的にするためキー順に処理する
	for _, key := range sortedKeys(raw) {
		date, err := model.ParseDateKey(key)
		if err != nil {
			continue // 日付として解釈できないキーは読み飛ばす
		}
		outfit, shape := r.decodeRecord(date, raw[key])
		r.observeShape(shape)
		result[date] = outfit
	}
	return result, nil
}

// Find は指定日付の計画を取得する。見つからない場合はnilを返す。
func (r *SnapshotPlanRepo) Find(ctx context.Context, date model.DateKey) (*model.PlannedOutfit, error) {
	plans, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return plans[date], nil
}

// Mutate は指定日付の計画を原子的に変更する。
// 変更対象の歴史的表記キーはすべて取り除き、正規形キーで書き戻す。
func (r *SnapshotPlanRepo) Mutate(ctx context.Context, date model.DateKey, fn func(*model.PlannedOutfit) (*model.PlannedOutfit, error)) error {
	return r.store.Update(ctx, snapshot.KeyPlans, func(doc []byte) ([]byte, error) {
		raw, err := decodePlanDoc(doc)
		if err != nil {
			return nil, err
		}

		var current *model.PlannedOutfit
		for _, key := range sortedKeys(raw) {
			parsed, err := model.ParseDateKey(key)
			if err != nil || parsed != date {
				continue
			}
			outfit, shape := r.decodeRecord(date, raw[key])
			r.observeShape(shape)
			current = outfit
			delete(raw, key)
		}

		updated, err := fn(current)
		if err != nil {
			return nil, err
		}
		if updated != nil {
			encoded, err := encodePlanRecord(updated)
			if err != nil {
				return nil, err
			}
			raw[string(date)] = encoded
		}
		return json.Marshal(raw)
	})
}

// Delete は指定日付の計画を無条件に削除する。
func (r *SnapshotPlanRepo) Delete(ctx context.Context, date model.DateKey) error {
	return r.store.Update(ctx, snapshot.KeyPlans, func(doc []byte) ([]byte, error) {
		raw, err := decodePlanDoc(doc)
		if err != nil {
			return nil, err
		}

		found := false
		for key := range raw {
			parsed, err := model.ParseDateKey(key)
			if err != nil || parsed != date {
				continue
			}
			delete(raw, key)
			found = true
		}
		if !found {
			return nil, fmt.Errorf("計画の削除に失敗しました: %w", ErrNotFound)
		}
		return json.Marshal(raw)
	})
}

// Compact は保存中の全計画を正規形エンコーディングに書き換える。
// 日付として解釈できないキーはデータ損失を避けるため手を付けない。
func (r *SnapshotPlanRepo) Compact(ctx context.Context) (int, error) {
	migrated := 0
	err := r.store.Update(ctx, snapshot.KeyPlans, func(doc []byte) ([]byte, error) {
		migrated = 0
		raw, err := decodePlanDoc(doc)
		if err != nil {
			return nil, err
		}

		rewritten := make(map[string]json.RawMessage, len(raw))
		for _, key := range sortedKeys(raw) {
			date, err := model.ParseDateKey(key)
			if err != nil {
				rewritten[key] = raw[key]
				continue
			}
			outfit, shape := r.decodeRecord(date, raw[key])
			encoded, err := encodePlanRecord(outfit)
			if err != nil {
				return nil, err
			}
			if shape != model.PlanShapeItemsObj || key != string(date) {
				migrated++
			}
			rewritten[string(date)] = encoded
		}
		return json.Marshal(rewritten)
	})
	if err != nil {
		return 0, fmt.Errorf("計画ドキュメントの正規化に失敗しました: %w", err)
	}
	return migrated, nil
}

// decodeRecord は計画値を正規形に変換する。形式を問わず必ず成功する。
func (r *SnapshotPlanRepo) decodeRecord(date model.DateKey, raw json.RawMessage) (*model.PlannedOutfit, string) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		value = nil
	}

	items, shape := model.NormalizePlanValue(value)
	outfit := &model.PlannedOutfit{
		Date:  date,
		Items: items,
	}

	// メタデータはオブジェクト形式のレコードにのみ存在する
	if obj, ok := value.(map[string]any); ok {
		if id, ok := obj["collectionId"].(string); ok && id != "" {
			outfit.CollectionID = &id
		}
		if notes, ok := obj["notes"].(string); ok {
			outfit.Notes = notes
		}
		switch rating := obj["rating"].(type) {
		case string:
			outfit.Rating = rating
		case float64:
			outfit.Rating = strconv.FormatFloat(rating, 'f', -1, 64)
		}
		if ts, ok := obj["updatedAt"].(string); ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				outfit.UpdatedAt = t
			}
		}
	}
	return outfit, shape
}

func (r *SnapshotPlanRepo) observeShape(shape string) {
	if r.ShapeObserver == nil {
		return
	}
	if shape == model.PlanShapeItemsObj || shape == model.PlanShapeAbsent {
		return
	}
	r.ShapeObserver(shape)
}

// encodePlanRecord は計画を正規形エンコーディングに変換する。
func encodePlanRecord(outfit *model.PlannedOutfit) (json.RawMessage, error) {
	record := planRecord{
		Items:        outfit.Items,
		CollectionID: outfit.CollectionID,
		Notes:        outfit.Notes,
		Rating:       outfit.Rating,
		UpdatedAt:    outfit.UpdatedAt,
	}
	if record.Items == nil {
		record.Items = []model.ItemID{}
	}
	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("計画レコードのエンコードに失敗しました: %w", err)
	}
	return encoded, nil
}

// decodePlanDoc は計画ドキュメントをデコードする。nil・nullは空として扱う。
func decodePlanDoc(doc []byte) (map[string]json.RawMessage, error) {
	if len(doc) == 0 || string(doc) == "null" {
		return map[string]json.RawMessage{}, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("計画ドキュメントの解析に失敗しました: %w", err)
	}
	return raw, nil
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
