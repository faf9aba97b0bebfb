// Package planner は日付ごとのコーディネート計画のドメインロジックを提供する。
//
// 計画の状態は 未作成 → 計画あり → 空 → 計画あり/未作成 と遷移する。
// ClearOutfitは空レコードを残し、DeleteOutfitは無条件にレコードを取り除く。
// すべての遷移は冪等。
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/repository"
	"github.com/hitoshi/closetman/internal/security"
)

// Service は計画管理のサービス層。
type Service struct {
	planRepo  repository.PlanRepository
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(planRepo repository.PlanRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{planRepo: planRepo, sanitizer: sanitizer}
}

// NormalizeDateKey は日付入力を正規形のキーに変換する。
// ゼロ埋めなしの歴史的表記やスラッシュ区切りも受け付ける。
func (s *Service) NormalizeDateKey(input string) (model.DateKey, error) {
	return model.ParseDateKey(input)
}

// ListPlans は全計画を正規形で返す。
func (s *Service) ListPlans(ctx context.Context) (map[model.DateKey]*model.PlannedOutfit, error) {
	plans, err := s.planRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("計画一覧の取得に失敗しました: %w", err)
	}
	return plans, nil
}

// GetOutfit は指定日の計画を返す。計画が存在しない場合は空のレコードを返す。
// 未作成と空の区別はAPI上では行わない（どちらもアイテムなしの計画として見える）。
func (s *Service) GetOutfit(ctx context.Context, rawDate string) (*model.PlannedOutfit, error) {
	date, err := model.ParseDateKey(rawDate)
	if err != nil {
		return nil, err
	}
	outfit, err := s.planRepo.Find(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("計画の取得に失敗しました: %w", err)
	}
	if outfit == nil {
		return &model.PlannedOutfit{Date: date, Items: []model.ItemID{}}, nil
	}
	return outfit, nil
}

// SetOutfit は指定日の計画を丸ごと置き換える。
// アイテムIDは正規化・重複除去され、メモはサニタイズされる。
func (s *Service) SetOutfit(ctx context.Context, rawDate string, items []model.ItemID, meta model.OutfitMeta) (*model.PlannedOutfit, error) {
	date, err := model.ParseDateKey(rawDate)
	if err != nil {
		return nil, err
	}

	outfit := &model.PlannedOutfit{
		Date:         date,
		Items:        model.DedupeItemIDs(items),
		CollectionID: meta.CollectionID,
		Notes:        s.sanitizer.Sanitize(meta.Notes),
		Rating:       meta.Rating,
		UpdatedAt:    time.Now(),
	}
	err = s.planRepo.Mutate(ctx, date, func(*model.PlannedOutfit) (*model.PlannedOutfit, error) {
		return outfit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("計画の保存に失敗しました: %w", err)
	}
	return outfit, nil
}

// AddItems は指定日の計画にアイテムを追加する。
// 計画が未作成の場合は新規作成する。既存のアイテムは重複追加されない。
func (s *Service) AddItems(ctx context.Context, rawDate string, items []model.ItemID) (*model.PlannedOutfit, error) {
	date, err := model.ParseDateKey(rawDate)
	if err != nil {
		return nil, err
	}

	var result *model.PlannedOutfit
	err = s.planRepo.Mutate(ctx, date, func(current *model.PlannedOutfit) (*model.PlannedOutfit, error) {
		if current == nil {
			current = &model.PlannedOutfit{Date: date, Items: []model.ItemID{}}
		}
		current.Items = model.DedupeItemIDs(append(current.Items, items...))
		current.UpdatedAt = time.Now()
		result = current
		return current, nil
	})
	if err != nil {
		return nil, fmt.Errorf("アイテムの追加に失敗しました: %w", err)
	}
	return result, nil
}

// RemoveItems は指定日の計画からアイテムを取り除く。
// 最後のアイテムを取り除いても空レコードとして残る。
// 計画が未作成の場合は何もしない。
func (s *Service) RemoveItems(ctx context.Context, rawDate string, items []model.ItemID) (*model.PlannedOutfit, error) {
	date, err := model.ParseDateKey(rawDate)
	if err != nil {
		return nil, err
	}

	removeSet := make(map[model.ItemID]bool, len(items))
	for _, id := range items {
		removeSet[model.CanonicalItemID(string(id))] = true
	}

	var result *model.PlannedOutfit
	err = s.planRepo.Mutate(ctx, date, func(current *model.PlannedOutfit) (*model.PlannedOutfit, error) {
		if current == nil {
			result = &model.PlannedOutfit{Date: date, Items: []model.ItemID{}}
			return nil, nil
		}
		remaining := make([]model.ItemID, 0, len(current.Items))
		for _, id := range current.Items {
			if removeSet[model.CanonicalItemID(string(id))] {
				continue
			}
			remaining = append(remaining, id)
		}
		current.Items = remaining
		current.UpdatedAt = time.Now()
		result = current
		return current, nil
	})
	if err != nil {
		return nil, fmt.Errorf("アイテムの削除に失敗しました: %w", err)
	}
	return result, nil
}

// ClearOutfit は指定日の計画を空にする。レコード自体は常に残す。
// 計画が未作成の場合は空レコードを新規作成する（冪等）。
func (s *Service) ClearOutfit(ctx context.Context, rawDate string) (*model.PlannedOutfit, error) {
	date, err := model.ParseDateKey(rawDate)
	if err != nil {
		return nil, err
	}

	cleared := &model.PlannedOutfit{
		Date:      date,
		Items:     []model.ItemID{},
		UpdatedAt: time.Now(),
	}
	err = s.planRepo.Mutate(ctx, date, func(*model.PlannedOutfit) (*model.PlannedOutfit, error) {
		return cleared, nil
	})
	if err != nil {
		return nil, fmt.Errorf("計画のクリアに失敗しました: %w", err)
	}
	return cleared, nil
}

// DeleteOutfit は指定日の計画レコードを無条件に削除する。
func (s *Service) DeleteOutfit(ctx context.Context, rawDate string) error {
	date, err := model.ParseDateKey(rawDate)
	if err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewOutfitNotFoundError(date)
		}
		return fmt.Errorf("計画の削除に失敗しました: %w", err)
	}
	return nil
}
