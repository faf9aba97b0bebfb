// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, wardrobe, plan, collection, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation              = "VALIDATION_FAILED"
	ErrCodeItemNotFound            = "ITEM_NOT_FOUND"
	ErrCodeOutfitNotFound          = "OUTFIT_NOT_FOUND"
	ErrCodeCollectionNotFound      = "COLLECTION_NOT_FOUND"
	ErrCodeWishNotFound            = "WISH_NOT_FOUND"
	ErrCodePhotoNotFound           = "PHOTO_NOT_FOUND"
	ErrCodeDuplicateCollectionName = "DUPLICATE_COLLECTION_NAME"
	ErrCodeInvalidDateKey          = "INVALID_DATE_KEY"
	ErrCodeInvalidURL              = "INVALID_URL"
	ErrCodeSSRFBlocked             = "SSRF_BLOCKED"
	ErrCodeFetchFailed             = "FETCH_FAILED"
)

// NewValidationError は必須フィールド欠落等の入力検証エラーを生成する。
func NewValidationError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力内容が不正です: %s", reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewItemNotFoundError はアイテム未検出エラーを生成する。
func NewItemNotFoundError(itemID ItemID) *APIError {
	return &APIError{
		Code:     ErrCodeItemNotFound,
		Message:  fmt.Sprintf("指定されたアイテムが見つかりません: %s", itemID),
		Category: "wardrobe",
		Action:   "アイテムIDを確認してください。",
	}
}

// NewOutfitNotFoundError はプラン未検出エラーを生成する。
func NewOutfitNotFoundError(date DateKey) *APIError {
	return &APIError{
		Code:     ErrCodeOutfitNotFound,
		Message:  fmt.Sprintf("指定された日付のコーディネートが見つかりません: %s", date),
		Category: "plan",
		Action:   "日付を確認してください。",
	}
}

// NewCollectionNotFoundError はコレクション未検出エラーを生成する。
func NewCollectionNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeCollectionNotFound,
		Message:  fmt.Sprintf("指定されたコレクションが見つかりません: %s", id),
		Category: "collection",
		Action:   "コレクションIDを確認してください。",
	}
}

// NewWishNotFoundError はウィッシュリスト項目の未検出エラーを生成する。
func NewWishNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeWishNotFound,
		Message:  fmt.Sprintf("指定されたウィッシュリスト項目が見つかりません: %s", id),
		Category: "wardrobe",
		Action:   "項目IDを確認してください。",
	}
}

// NewPhotoNotFoundError はボード写真の未検出エラーを生成する。
func NewPhotoNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodePhotoNotFound,
		Message:  fmt.Sprintf("指定された写真が見つかりません: %s", id),
		Category: "wardrobe",
		Action:   "写真IDを確認してください。",
	}
}

// NewDuplicateCollectionNameError はコレクション名の重複エラーを生成する。
// 名前の比較は大文字小文字を区別しない。
func NewDuplicateCollectionNameError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateCollectionName,
		Message:  fmt.Sprintf("同名のコレクションが既に存在します: %s", name),
		Category: "collection",
		Action:   "別の名前を指定してください。",
	}
}

// NewInvalidDateKeyError は解釈できない日付キーのエラーを生成する。
func NewInvalidDateKeyError(input string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDateKey,
		Message:  fmt.Sprintf("日付として解釈できません: %s", input),
		Category: "validation",
		Action:   "YYYY-MM-DD形式の日付を指定してください。",
	}
}

// NewInvalidURLError は無効なURLエラーを生成する。
func NewInvalidURLError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("無効なURLです: %s", reason),
		Category: "validation",
		Action:   "正しいURL形式（http:// または https:// で始まるURL）を入力してください。",
	}
}

// NewSSRFBlockedError はSSRFブロックエラーを生成する。
func NewSSRFBlockedError() *APIError {
	return &APIError{
		Code:     ErrCodeSSRFBlocked,
		Message:  "セキュリティポリシーにより、指定されたURLへのアクセスがブロックされました。",
		Category: "validation",
		Action:   "公開されているWebサイトのURLを入力してください。ローカルネットワークやプライベートIPへのアクセスは許可されていません。",
	}
}

// NewFetchFailedError は画像取得失敗エラーを生成する。
func NewFetchFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFetchFailed,
		Message:  fmt.Sprintf("画像の取得に失敗しました: %s", reason),
		Category: "system",
		Action:   "URLが正しいか確認し、しばらく待ってから再度お試しください。",
	}
}
