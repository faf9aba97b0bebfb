// Package usage はワードローブの利用状況集計を提供する。
//
// 集計は計画ストアとアイテムストアの読み取り専用の射影であり、
// 副作用を持たず何度でも実行できる。計画側の宙ぶらりん参照
// （削除済みアイテムへのID）は黙って読み飛ばされる。
package usage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/repository"
	"github.com/hitoshi/closetman/internal/theme"
)

// DefaultStaleThreshold は「出番の少ないアイテム」の既定しきい値。
const DefaultStaleThreshold = 5

// OldItemThreshold は「しばらく着ていないアイテム」の判定期間（4週間）。
const OldItemThreshold = 28 * 24 * time.Hour

// Entry は1アイテム分の集計結果。
type Entry struct {
	Item  model.Item `json:"item"`
	Count int        `json:"count"`
}

// Summary は利用状況の集計結果。
// Entriesはアイテムストアの格納順（最初に見つかった順）を保持する。
type Summary struct {
	Entries []Entry `json:"entries"`
}

// ColorCount は1色分の所持アイテム数。
type ColorCount struct {
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Service は利用状況集計のサービス層。
type Service struct {
	itemRepo repository.ItemRepository
	planRepo repository.PlanRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(itemRepo repository.ItemRepository, planRepo repository.PlanRepository) *Service {
	return &Service{itemRepo: itemRepo, planRepo: planRepo}
}

// Compute は全計画を走査してアイテムごとの登場回数を集計する。
// themeFilterが指定された場合、テーマにマッチしないアイテムは集計対象から外れ
// 回数0のエントリとして残る（freeテーマは全アイテムにマッチする）。
// 全アイテムがエントリに含まれるため、StaleItemsはフィルタの有無に関わらず
// アイテムストア全体を対象にできる。
func (s *Service) Compute(ctx context.Context, themeFilter *theme.Theme) (*Summary, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}
	plans, err := s.planRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("計画一覧の取得に失敗しました: %w", err)
	}

	counts := make(map[model.ItemID]int)
	for _, outfit := range plans {
		for _, id := range outfit.Items {
			counts[model.CanonicalItemID(string(id))]++
		}
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		count := counts[model.CanonicalItemID(string(item.ID))]
		// テーマにマッチしないアイテムは登場回数を0に落とす
		if themeFilter != nil && !themeFilter.Matches(&item) {
			count = 0
		}
		entries = append(entries, Entry{Item: item, Count: count})
	}
	// 計画側だけに現れるID（宙ぶらりん参照）はここで自然に脱落する

	return &Summary{Entries: entries}, nil
}

// TopN は登場回数の多い順に最大n件を返す。
// 回数が同じ場合はアイテムストアの格納順を保つ。nが0以下の場合はnilを返す。
func (sum *Summary) TopN(n int) []Entry {
	if n <= 0 {
		return nil
	}
	sorted := make([]Entry, len(sum.Entries))
	copy(sorted, sum.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// StaleItems は登場回数がしきい値以下のアイテムを返す。
// 一度も計画に登場していないアイテム（回数0）も含まれる。
func (sum *Summary) StaleItems(threshold int) []Entry {
	stale := make([]Entry, 0, len(sum.Entries))
	for _, entry := range sum.Entries {
		if entry.Count <= threshold {
			stale = append(stale, entry)
		}
	}
	return stale
}

// ColorUsage は色タグごとの所持アイテム数を最初に見つかった順で返す。
func (s *Service) ColorUsage(ctx context.Context) ([]ColorCount, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}

	counts := make(map[string]int)
	order := []string{}
	for _, item := range items {
		for _, color := range item.Colors {
			if counts[color] == 0 {
				order = append(order, color)
			}
			counts[color]++
		}
	}

	result := make([]ColorCount, 0, len(order))
	for _, color := range order {
		result = append(result, ColorCount{Color: color, Count: counts[color]})
	}
	return result, nil
}

// OldItems は4週間以上着用記録のないアイテムを返す。
// 一度も着ていないアイテムも対象になる。
func (s *Service) OldItems(ctx context.Context, now time.Time) ([]model.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("アイテム一覧の取得に失敗しました: %w", err)
	}

	old := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.LastWorn == nil || now.Sub(*item.LastWorn) > OldItemThreshold {
			old = append(old, item)
		}
	}
	return old, nil
}
