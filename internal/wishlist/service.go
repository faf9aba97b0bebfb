// Package wishlist はウィッシュリスト（購入検討中アイテム）のドメインロジックを提供する。
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/repository"
)

// AddInput はウィッシュ追加の入力。
type AddInput struct {
	Name     string
	Category string
	Color    string
	Notes    string
}

// Suggestions はワードローブの不足分析の結果。
type Suggestions struct {
	// MissingCategories は標準カテゴリのうちワードローブに1つも存在しないもの。
	MissingCategories []model.Category `json:"missingCategories"`
	// SparseColors はワードローブで2アイテム未満しか持たない色。
	SparseColors []string `json:"sparseColors"`
	// Wishlist は現在のウィッシュリスト全件。
	Wishlist []model.WishItem `json:"wishlist"`
}

// Service はウィッシュリスト管理のサービス層。
type Service struct {
	wishRepo repository.WishlistRepository
	itemRepo repository.ItemRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(wishRepo repository.WishlistRepository, itemRepo repository.ItemRepository) *Service {
	return &Service{wishRepo: wishRepo, itemRepo: itemRepo}
}

// ListWishes は全ウィッシュを返す。
func (s *Service) ListWishes(ctx context.Context) ([]model.WishItem, error) {
	wishes, err := s.wishRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ウィッシュリストの取得に失敗しました: %w", err)
	}
	return wishes, nil
}

// AddWish はウィッシュを追加する。
func (s *Service) AddWish(ctx context.Context, input AddInput) (*model.WishItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, model.NewValidationError("アイテム名を入力してください")
	}

	wish := &model.WishItem{
		ID:       uuid.New().String(),
		Name:     name,
		Category: input.Category,
		Color:    model.NormalizeColor(input.Color),
		Notes:    strings.TrimSpace(input.Notes),
	}
	if err := s.wishRepo.Create(ctx, wish); err != nil {
		return nil, fmt.Errorf("ウィッシュの追加に失敗しました: %w", err)
	}
	return wish, nil
}

// RemoveWish は指定IDのウィッシュを削除する。
func (s *Service) RemoveWish(ctx context.Context, id string) error {
	if err := s.wishRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewWishNotFoundError(id)
		}
		return fmt.Errorf("ウィッシュの削除に失敗しました: %w", err)
	}
	return nil
}

// Suggest はワードローブの不足分析を返す。
// 標準カテゴリのうち1つも持っていないカテゴリ、2アイテム未満の色、
// および現在のウィッシュリストをまとめる。
func (s *Service) Suggest(ctx context.Context) (*Suggestions, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}
	wishes, err := s.wishRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ウィッシュリストの取得に失敗しました: %w", err)
	}

	ownedCategories := make(map[model.Category]bool)
	colorCount := make(map[string]int)
	colorOrder := []string{}
	for _, item := range items {
		ownedCategories[item.Category] = true
		for _, color := range item.Colors {
			if colorCount[color] == 0 {
				colorOrder = append(colorOrder, color)
			}
			colorCount[color]++
		}
	}

	missing := []model.Category{}
	for _, category := range model.KnownCategories {
		if !ownedCategories[category] {
			missing = append(missing, category)
		}
	}

	sparse := []string{}
	for _, color := range colorOrder {
		if colorCount[color] < 2 {
			sparse = append(sparse, color)
		}
	}

	return &Suggestions{
		MissingCategories: missing,
		SparseColors:      sparse,
		Wishlist:          wishes,
	}, nil
}
