// Package snapshot はストアごとのドキュメント全体を単位とした
// スナップショット永続化を提供する。
//
// 各ストア（ワードローブ、プラン、コレクション、ウィッシュリスト、ボード）は
// 1つのキーに対応する1ドキュメントとして丸ごと保存される。すべての変更操作は
// load-modify-storeサイクルで行われ、Update/UpdateManyがサイクル全体の
// 相互排他を保証する。2つの変更操作がloadとstoreを交互に挟むことはない。
package snapshot

import "context"

// ストアキー。歴史的データとの互換のため、元のlocalStorageキー名を踏襲する。
const (
	KeyItems       = "myWardrobeItems"
	KeyPlans       = "plannedOutfits"
	KeyCollections = "outfitCollections"
	KeyWishlist    = "wardrobeWishlist"
	KeyBoard       = "outfitBoardItems"
)

// UpdateFunc は単一ドキュメントの変更関数。
// docは現在のドキュメント（存在しない場合はnil）、戻り値が新しいドキュメントになる。
// エラーを返した場合は何も書き込まれない。
type UpdateFunc func(doc []byte) ([]byte, error)

// UpdateManyFunc は複数ドキュメントの一括変更関数。
// docsはキーごとの現在のドキュメント（存在しないキーはnil値）。
// 戻り値のマップに含まれるキーのみが書き戻される。
type UpdateManyFunc func(docs map[string][]byte) (map[string][]byte, error)

// Store はスナップショット永続化のインターフェース。
// 実装はPostgreSQL（行ロックによる排他）とファイル（ミューテックスによる排他）の2種。
type Store interface {
	// Load は指定キーのドキュメントを取得する。存在しない場合はnilを返す。
	// 変更操作と並行して呼んでも、書き込み途中のドキュメントを観測することはない。
	Load(ctx context.Context, key string) ([]byte, error)

	// Update は指定キーに対してload-modify-storeサイクルを原子的に実行する。
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// UpdateMany は複数キーに対するload-modify-storeサイクルを
	// 単一の原子的操作として実行する。コレクション削除のカスケードのように
	// 2つのストアをまたぐ変更で使用する。
	UpdateMany(ctx context.Context, keys []string, fn UpdateManyFunc) error

	// Ping はストレージが利用可能かを確認する。
	Ping(ctx context.Context) error

	// Close はストアが保持するリソースを解放する。
	Close() error
}
