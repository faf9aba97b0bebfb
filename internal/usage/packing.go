package usage

import (
	"context"
	"fmt"

	"github.com/hitoshi/closetman/internal/model"
)

// PackingList は指定した日付の計画からパッキングリストを生成する。
// 対象日の計画アイテムを合算・重複除去し、アイテムストアで解決する。
// 削除済みアイテムへの参照は読み飛ばされる。日付の順序と
// 各計画内のアイテム順序が結果の順序を決める。
func (s *Service) PackingList(ctx context.Context, rawDates []string) ([]model.Item, error) {
	dates := make([]model.DateKey, 0, len(rawDates))
	for _, raw := range rawDates {
		date, err := model.ParseDateKey(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}

	plans, err := s.planRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("計画一覧の取得に失敗しました: %w", err)
	}

	ids := []model.ItemID{}
	for _, date := range dates {
		outfit, ok := plans[date]
		if !ok {
			continue
		}
		ids = append(ids, outfit.Items...)
	}
	ids = model.DedupeItemIDs(ids)

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}
	byID := make(map[model.ItemID]model.Item, len(items))
	for _, item := range items {
		byID[model.CanonicalItemID(string(item.ID))] = item
	}

	result := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			result = append(result, item)
		}
	}
	return result, nil
}
