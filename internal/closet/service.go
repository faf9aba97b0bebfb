// Package closet はワードローブアイテム管理のドメインロジックを提供する。
package closet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/repository"
)

// CreateInput はアイテム作成の入力。
type CreateInput struct {
	Name     string
	Category model.Category
	Colors   []string
	Image    string
}

// Service はワードローブ管理のサービス層。
// アイテムのCRUD、お気に入り・着用記録、新着フラグのスイープを提供する。
type Service struct {
	itemRepo repository.ItemRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(itemRepo repository.ItemRepository) *Service {
	return &Service{itemRepo: itemRepo}
}

// ListItems は全アイテムを格納順で返す。
func (s *Service) ListItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}
	return items, nil
}

// GetItem は指定IDのアイテムを返す。
func (s *Service) GetItem(ctx context.Context, id model.ItemID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("アイテムの取得に失敗しました: %w", err)
	}
	if item == nil {
		return nil, model.NewItemNotFoundError(id)
	}
	return item, nil
}

// CreateItem はアイテムを作成する。
// IDは作成時に割り当てられ、新着フラグが付与される。
// 色タグは正規化され、正規化後に空になる場合は検証エラーを返す。
func (s *Service) CreateItem(ctx context.Context, input CreateInput) (*model.Item, error) {
	if input.Name == "" {
		return nil, model.NewValidationError("アイテム名を入力してください")
	}
	if input.Category == "" {
		return nil, model.NewValidationError("カテゴリを選択してください")
	}
	colors := model.NormalizeColors(input.Colors)
	if len(colors) == 0 {
		return nil, model.NewValidationError("色を1つ以上指定してください")
	}

	item := &model.Item{
		ID:        model.NewItemID(),
		Name:      input.Name,
		Category:  input.Category,
		Colors:    colors,
		IsNew:     true,
		AddedDate: time.Now(),
		Image:     input.Image,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("アイテムの作成に失敗しました: %w", err)
	}
	return item, nil
}

// DeleteItem は指定IDのアイテムを削除する。
// 計画へのカスケードは行わない。計画側の参照は読み取り時に除外される。
func (s *Service) DeleteItem(ctx context.Context, id model.ItemID) error {
	if err := s.itemRepo.DeleteByID(ctx, id); err != nil {
		return mapItemRepoError(err, id)
	}
	return nil
}

// SetFavorite は指定IDのアイテムのお気に入りフラグを設定する。
func (s *Service) SetFavorite(ctx context.Context, id model.ItemID, favorite bool) (*model.Item, error) {
	var updated model.Item
	err := s.itemRepo.Mutate(ctx, id, func(item *model.Item) error {
		item.IsFavorite = favorite
		updated = *item
		return nil
	})
	if err != nil {
		return nil, mapItemRepoError(err, id)
	}
	return &updated, nil
}

// MarkWorn は指定IDのアイテムの最終着用日時を記録する。
func (s *Service) MarkWorn(ctx context.Context, id model.ItemID, when time.Time) (*model.Item, error) {
	var updated model.Item
	err := s.itemRepo.Mutate(ctx, id, func(item *model.Item) error {
		item.LastWorn = &when
		updated = *item
		return nil
	})
	if err != nil {
		return nil, mapItemRepoError(err, id)
	}
	return &updated, nil
}

// SweepExpiredNew は追加から一定期間が経過したアイテムの新着フラグを解除する。
// 解除した件数を返す。冪等。
func (s *Service) SweepExpiredNew(ctx context.Context, now time.Time) (int, error) {
	cleared := 0
	err := s.itemRepo.MutateAll(ctx, func(items []model.Item) ([]model.Item, error) {
		cleared = 0
		for i := range items {
			if items[i].NewExpired(now) {
				items[i].IsNew = false
				cleared++
			}
		}
		return items, nil
	})
	if err != nil {
		return 0, fmt.Errorf("新着フラグのスイープに失敗しました: %w", err)
	}
	return cleared, nil
}

// mapItemRepoError はリポジトリのエラーをドメインエラーに変換する。
func mapItemRepoError(err error, id model.ItemID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return model.NewItemNotFoundError(id)
	}
	return fmt.Errorf("アイテムの更新に失敗しました: %w", err)
}
