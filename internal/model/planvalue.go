// Package model はドメインモデルを定義する。
package model

import (
	"strconv"
	"strings"
)

// プラン値の形状ラベル。正規化メトリクスの分類に使用する。
const (
	PlanShapeAbsent   = "absent"
	PlanShapeArray    = "array"
	PlanShapeString   = "comma_string"
	PlanShapeSingle   = "single_object"
	PlanShapeItemsObj = "items_object"
	PlanShapeUnknown  = "unknown"
)

// NormalizePlanValue は歴史的に観測された全エンコーディングのプラン値を
// 正規形のアイテムID列に還元する。全域関数であり、決してエラーを返さない。
// 解釈できない形状は空列に縮退する（文書化されたフォールバック）。
//
// 受理する形状:
//   - nil / 欠損          → 空列
//   - 配列                → コピーし、順序を保って重複除去
//   - カンマ区切り文字列  → 分割・トリムし、数値様トークンは正規形に変換
//   - {id: ...} オブジェクト   → 単一要素の列
//   - {items: [...]} オブジェクト → そのitems配列
//
// 第2戻り値は観測された形状ラベル（メトリクス用）。
func NormalizePlanValue(raw any) ([]ItemID, string) {
	switch v := raw.(type) {
	case nil:
		return []ItemID{}, PlanShapeAbsent

	case []any:
		return DedupeItemIDs(tokensToIDs(v)), PlanShapeArray

	case []ItemID:
		return DedupeItemIDs(v), PlanShapeArray

	case []string:
		ids := make([]ItemID, len(v))
		for i, s := range v {
			ids[i] = ItemID(s)
		}
		return DedupeItemIDs(ids), PlanShapeArray

	case string:
		if strings.TrimSpace(v) == "" {
			return []ItemID{}, PlanShapeAbsent
		}
		parts := strings.Split(v, ",")
		ids := make([]ItemID, len(parts))
		for i, p := range parts {
			ids[i] = ItemID(p)
		}
		return DedupeItemIDs(ids), PlanShapeString

	case map[string]any:
		if items, ok := v["items"]; ok {
			if arr, ok := items.([]any); ok {
				return DedupeItemIDs(tokensToIDs(arr)), PlanShapeItemsObj
			}
			// itemsキーがあるが配列でない場合は解釈不能として扱う
			return []ItemID{}, PlanShapeUnknown
		}
		if id, ok := v["id"]; ok {
			if token := tokenToID(id); token != "" {
				return DedupeItemIDs([]ItemID{token}), PlanShapeSingle
			}
		}
		return []ItemID{}, PlanShapeUnknown

	default:
		return []ItemID{}, PlanShapeUnknown
	}
}

// tokensToIDs は任意型の要素列をアイテムID列に変換する。
// 解釈できない要素は読み飛ばす。
func tokensToIDs(tokens []any) []ItemID {
	ids := make([]ItemID, 0, len(tokens))
	for _, t := range tokens {
		if id := tokenToID(t); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// tokenToID は単一トークンをアイテムIDに変換する。
// JSON数値（float64）は整数の10進文字列に畳む。
func tokenToID(token any) ItemID {
	switch t := token.(type) {
	case string:
		return ItemID(t)
	case float64:
		return ItemID(strconv.FormatInt(int64(t), 10))
	case int:
		return ItemID(strconv.Itoa(t))
	case int64:
		return ItemID(strconv.FormatInt(t, 10))
	case map[string]any:
		// ネストした {id: ...} オブジェクト
		if id, ok := t["id"]; ok {
			switch inner := id.(type) {
			case string:
				return ItemID(inner)
			case float64:
				return ItemID(strconv.FormatInt(int64(inner), 10))
			}
		}
		return ""
	default:
		return ""
	}
}
