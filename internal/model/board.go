// Package model はドメインモデルを定義する。
package model

import "time"

// BoardPhoto はアウトフィットボード（コーディネート写真ギャラリー）の
// 1枚の写真を表す。
type BoardPhoto struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"` // data URL形式の画像データ
	Notes     string    `json:"notes"` // サニタイズ済みHTML
	CreatedAt time.Time `json:"createdAt"`
}
