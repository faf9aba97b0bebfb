// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"time"
)

// Category は衣類アイテムのカテゴリを表す。
// 定義済みカテゴリの他に自由入力の文字列も許容する。
type Category string

const (
	// CategoryTops はトップスのカテゴリ。
	CategoryTops Category = "tops"
	// CategoryBottoms はボトムスのカテゴリ。
	CategoryBottoms Category = "bottoms"
	// CategoryDresses はワンピースのカテゴリ。
	CategoryDresses Category = "dresses"
	// CategoryAccessories はアクセサリーのカテゴリ。
	CategoryAccessories Category = "accessories"
	// CategoryShoes は靴のカテゴリ。
	CategoryShoes Category = "shoes"
	// CategoryInnerwear はインナーのカテゴリ。
	CategoryInnerwear Category = "innerwear"
	// CategoryJackets はジャケット・アウターのカテゴリ。
	CategoryJackets Category = "jackets"
)

// KnownCategories はワードローブの充足判定に使用する標準カテゴリ一覧。
// ウィッシュリストの不足カテゴリ提案で参照される。
var KnownCategories = []Category{
	CategoryTops,
	CategoryBottoms,
	CategoryDresses,
	CategoryAccessories,
	CategoryShoes,
	CategoryInnerwear,
	CategoryJackets,
}

// Item はワードローブの衣類アイテムを表す。
// IDは作成時に呼び出し側（Create操作）で割り当てられ、以後不変。
type Item struct {
	ID         ItemID     `json:"id"`
	Name       string     `json:"name"`
	Category   Category   `json:"category"`
	Colors     []string   `json:"colors"` // 正規化済み（小文字・トリム済み）。作成後は空にならない
	IsFavorite bool       `json:"isFavorite"`
	IsNew      bool       `json:"isNew"` // 追加から7日経過でスイープにより自動解除
	LastWorn   *time.Time `json:"lastWorn"`
	AddedDate  time.Time  `json:"addedDate"`
	Image      string     `json:"image"` // 不透明な画像参照（data URL等）。コアでは解釈しない
}

// NewItemExpiry はIsNewフラグの有効期間。
const NewItemExpiry = 7 * 24 * time.Hour

// NewExpired はIsNewフラグが期限切れかどうかを判定する。
func (i *Item) NewExpired(now time.Time) bool {
	return i.IsNew && now.Sub(i.AddedDate) > NewItemExpiry
}

// HasColor はアイテムが指定色タグを持つかを判定する。
// 比較は正規化済みの色タグ同士で行う。
func (i *Item) HasColor(color string) bool {
	normalized := NormalizeColor(color)
	for _, c := range i.Colors {
		if c == normalized {
			return true
		}
	}
	return false
}

// NormalizeColor は色タグを正規化する（トリムして小文字化）。
// アイテム作成・テーマフィルタの両方で同一の正規化を通すこと。
func NormalizeColor(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// NormalizeColors は色タグ列を正規化し、空要素を除去して返す。
// 順序は保持し、重複は最初の出現のみ残す。
func NormalizeColors(colors []string) []string {
	result := make([]string, 0, len(colors))
	seen := make(map[string]bool)
	for _, c := range colors {
		n := NormalizeColor(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	return result
}
