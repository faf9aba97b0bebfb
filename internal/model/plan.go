// Package model はドメインモデルを定義する。
package model

import "time"

// DateKey はプランストアの主キーとなる暦日の正規形識別子。
// 正規形はゼロ埋めの "YYYY-MM-DD"。ゼロ埋めなしの歴史的形式は
// ParseDateKeyで正規形に変換してから使用すること。
type DateKey string

// PlannedOutfit は特定の日付に計画されたコーディネートを表す。
// 1つの日付キーには最大1つのPlannedOutfitが対応する。
// Itemsが参照するアイテムIDはアイテムストアに存在しない場合がある
// （宙ぶらりん参照）。読み取り時に除外され、エラーにはならない。
type PlannedOutfit struct {
	Date         DateKey   `json:"date"`
	Items        []ItemID  `json:"items"` // 挿入順を保持した重複なしのID列
	CollectionID *string   `json:"collectionId"`
	Notes        string    `json:"notes"`  // サニタイズ済みHTML
	Rating       string    `json:"rating"` // 任意の評価文字列（"5"等）
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsEmpty はアイテムもメタデータも持たない状態かを判定する。
// UpdatedAtは空判定に含めない。
func (p *PlannedOutfit) IsEmpty() bool {
	return len(p.Items) == 0 && p.CollectionID == nil && p.Notes == "" && p.Rating == ""
}

// HasItem は指定アイテムIDが計画に含まれるかを判定する。
// 比較は正規形のID同士で行う。
func (p *PlannedOutfit) HasItem(id ItemID) bool {
	canonical := CanonicalItemID(string(id))
	for _, it := range p.Items {
		if CanonicalItemID(string(it)) == canonical {
			return true
		}
	}
	return false
}

// OutfitMeta はプラン設定時の付帯情報。
type OutfitMeta struct {
	CollectionID *string
	Notes        string
	Rating       string
}
