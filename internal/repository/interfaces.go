// Package repository はデータ永続化のインターフェースを定義する。
//
// 実装はスナップショットストア（internal/snapshot）の上に構築される。
// ひとつの変更操作はひとつのUpdate/UpdateManyサイクルで完結するため、
// 2つの変更操作がload局面とstore局面を交互に挟むことはない。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/closetman/internal/model"
)

// ErrNotFound は対象レコードが存在しないことを示す。
// サービス層でドメイン固有のAPIErrorに変換される。
var ErrNotFound = errors.New("対象が見つかりません")

// ErrDuplicateName は名前の重複を示す。
// 重複判定は変更サイクルの内側で行うため、リポジトリがこのエラーを返す。
var ErrDuplicateName = errors.New("名前が重複しています")

// ItemRepository はワードローブアイテムの永続化インターフェース。
type ItemRepository interface {
	// List は全アイテムを格納順で取得する。
	List(ctx context.Context) ([]model.Item, error)

	// FindByID は指定IDのアイテムを取得する。見つからない場合はnilを返す。
	// IDの比較は正規形同士で行う。
	FindByID(ctx context.Context, id model.ItemID) (*model.Item, error)

	// Create はアイテムを追加する。
	Create(ctx context.Context, item *model.Item) error

	// Mutate は指定IDのアイテムを原子的に変更する。
	// アイテムが存在しない場合はErrNotFoundを返す。
	Mutate(ctx context.Context, id model.ItemID, fn func(*model.Item) error) error

	// MutateAll は全アイテムに対する一括変更を原子的に実行する。
	// スイープのような全件走査の更新で使用する。
	MutateAll(ctx context.Context, fn func([]model.Item) ([]model.Item, error)) error

	// DeleteByID は指定IDのアイテムを削除する。
	// 存在しない場合はErrNotFoundを返す。プランへのカスケードは行わない。
	DeleteByID(ctx context.Context, id model.ItemID) error
}

// PlanRepository は日付ごとのコーディネート計画の永続化インターフェース。
// 読み取りはすべて正規化境界（NormalizePlanValue / ParseDateKey）を通る。
type PlanRepository interface {
	// GetAll は全計画を正規形の日付キーつきで取得する。
	GetAll(ctx context.Context) (map[model.DateKey]*model.PlannedOutfit, error)

	// Find は指定日付の計画を取得する。見つからない場合はnilを返す。
	// 歴史的なキー表記（ゼロ埋めなし等）で保存された計画も正規形で照合される。
	Find(ctx context.Context, date model.DateKey) (*model.PlannedOutfit, error)

	// Mutate は指定日付の計画を原子的に変更する。
	// fnには現在の計画（存在しない場合はnil）が渡され、戻り値が保存される。
	// fnがnilを返した場合はレコードを削除する。
	Mutate(ctx context.Context, date model.DateKey, fn func(*model.PlannedOutfit) (*model.PlannedOutfit, error)) error

	// Delete は指定日付の計画を無条件に削除する。
	// 存在しない場合はErrNotFoundを返す。
	Delete(ctx context.Context, date model.DateKey) error

	// Compact は保存中の全計画を正規形エンコーディングに書き換える。
	// 歴史的な形式だったレコード数を返す。冪等。
	Compact(ctx context.Context) (int, error)
}

// CollectionRepository はコレクション（名前付きグルーピング）の永続化インターフェース。
type CollectionRepository interface {
	// List は全コレクションを取得する。
	List(ctx context.Context) ([]model.Collection, error)

	// FindByID は指定IDのコレクションを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Collection, error)

	// Create はコレクションを追加する。
	// 大文字小文字を区別しない名前の重複がある場合はErrDuplicateNameを返す。
	Create(ctx context.Context, collection *model.Collection) error

	// Rename は指定IDのコレクション名を変更する。
	// 自身を除いた重複がある場合はErrDuplicateName、
	// 存在しない場合はErrNotFoundを返す。
	Rename(ctx context.Context, id, newName string) error

	// DeleteCascade は指定IDのコレクションを削除し、参照している全計画の
	// CollectionIDを単一のスナップショットトランザクションで解除する。
	// 存在しない場合はErrNotFoundを返す。
	DeleteCascade(ctx context.Context, id string) error
}

// WishlistRepository はウィッシュリストの永続化インターフェース。
type WishlistRepository interface {
	// List は全ウィッシュを取得する。
	List(ctx context.Context) ([]model.WishItem, error)

	// Create はウィッシュを追加する。
	Create(ctx context.Context, wish *model.WishItem) error

	// DeleteByID は指定IDのウィッシュを削除する。
	// 存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}

// BoardRepository はアウトフィットボード写真の永続化インターフェース。
type BoardRepository interface {
	// List は全写真を取得する。
	List(ctx context.Context) ([]model.BoardPhoto, error)

	// Create は写真を追加する。
	Create(ctx context.Context, photo *model.BoardPhoto) error

	// UpdateNotes は指定IDの写真のメモを更新する。
	// 存在しない場合はErrNotFoundを返す。
	UpdateNotes(ctx context.Context, id, notes string) error

	// DeleteByID は指定IDの写真を削除する。
	// 存在しない場合はErrNotFoundを返す。
	DeleteByID(ctx context.Context, id string) error
}
