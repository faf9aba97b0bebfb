// Package theme は週替わりのカラーテーマ解決を提供する。
//
// テーマは5色の固定サイクル（pink, blue, brown, white, free）で、
// ISO 8601の週番号から決定される。画面・利用状況フィルタの双方が
// この解決結果を唯一の情報源として参照する。
package theme

import (
	"time"

	"github.com/hitoshi/closetman/internal/model"
)

// Theme は1週間分のカラーテーマを表す。
type Theme struct {
	Name   string `json:"name"`
	Light  string `json:"light"`  // 背景色
	Border string `json:"border"` // 枠線色
	Color  string `json:"color"`  // アクセント・文字色
}

// ThemeFree は全色にマッチする特別テーマの名前。
const ThemeFree = "free"

// themes は固定の5テーマサイクル。順序が週番号との対応を決める。
var themes = []Theme{
	{Name: "pink", Light: "#ffeaf3", Border: "#f8bcd4", Color: "#a64d79"},
	{Name: "blue", Light: "#d0e7ff", Border: "#a3c1ff", Color: "#2266aa"},
	{Name: "brown", Light: "#f5e9e2", Border: "#cbb79b", Color: "#8b5e3c"},
	{Name: "white", Light: "#ffffff", Border: "#cccccc", Color: "#555555"},
	{Name: ThemeFree, Light: "#f0f0f0", Border: "#999999", Color: "#000000"},
}

// All は全テーマをサイクル順で返す。
func All() []Theme {
	result := make([]Theme, len(themes))
	copy(result, themes)
	return result
}

// ForDate は指定日のテーマを返す。
// ISO 8601の週番号（木曜日シフト）を使用し、(週番号-1) mod 5 でサイクルを引く。
func ForDate(date time.Time) Theme {
	_, week := date.ISOWeek()
	return themes[(week-1)%len(themes)]
}

// ForDateKey は日付キーに対応するテーマを返す。
func ForDateKey(key model.DateKey) (Theme, error) {
	t, err := key.Time()
	if err != nil {
		return Theme{}, err
	}
	return ForDate(t), nil
}

// Matches はアイテムがテーマにマッチするかを判定する。
// freeテーマはすべてのアイテムにマッチする。それ以外はテーマ名と
// 同名の色タグを持つアイテムのみマッチする。
func (t Theme) Matches(item *model.Item) bool {
	if t.Name == ThemeFree {
		return true
	}
	return item.HasColor(t.Name)
}

// ByName は名前でテーマを検索する。見つからない場合はfalseを返す。
func ByName(name string) (Theme, bool) {
	normalized := model.NormalizeColor(name)
	for _, t := range themes {
		if t.Name == normalized {
			return t, true
		}
	}
	return Theme{}, false
}
