// Package model はドメインモデルを定義する。
package model

// Collection は日付に依存しないコーディネートの名前付きグルーピングを表す。
// 名前はコレクション間で大文字小文字を区別せず一意。
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WishItem はウィッシュリスト（購入検討中アイテム）の1件を表す。
type WishItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
}
