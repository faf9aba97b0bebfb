// Package model はドメインモデルを定義する。
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// ItemID はワードローブアイテムの不透明な識別子。
// 歴史的経緯により数値形式のIDと文字列形式のIDが混在するため、
// 比較の前に必ずCanonicalItemIDで正規形に揃えること。
type ItemID string

// NewItemID は新しいアイテムIDを生成する。
// ミリ秒タイムスタンプ + ランダム16進サフィックスの形式で、
// ストア内で一意になる。
func NewItemID() ItemID {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/randの失敗は実質発生しないが、フォールバックとしてナノ秒を使う
		return ItemID(strconv.FormatInt(time.Now().UnixNano(), 10))
	}
	return ItemID(strconv.FormatInt(time.Now().UnixMilli(), 10) + hex.EncodeToString(buf))
}

// CanonicalItemID はアイテムIDを正規形に変換する。
// 数値として解釈できるIDは10進文字列表現に揃える（"007" と "7"、
// 数値7と文字列"7"が等価になる）。それ以外はトリムのみ行う。
func CanonicalItemID(raw string) ItemID {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return ItemID(strconv.FormatInt(n, 10))
	}
	// 浮動小数点形式（JSONの数値デコードで生じる）も整数に畳む
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == float64(int64(f)) {
		return ItemID(strconv.FormatInt(int64(f), 10))
	}
	return ItemID(trimmed)
}

// DedupeItemIDs はアイテムID列を正規形に揃え、最初の出現順を保って重複を除去する。
// 空のIDは取り除かれる。
func DedupeItemIDs(ids []ItemID) []ItemID {
	result := make([]ItemID, 0, len(ids))
	seen := make(map[ItemID]bool)
	for _, id := range ids {
		canonical := CanonicalItemID(string(id))
		if canonical == "" || seen[canonical] {
			continue
		}
		seen[canonical] = true
		result = append(result, canonical)
	}
	return result
}
