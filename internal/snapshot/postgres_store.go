package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// PostgresStore はPostgreSQLを使用したスナップショットストア。
// snapshotsテーブルの1行が1ストアのドキュメントに対応し、
// load-modify-storeサイクルはトランザクション内のSELECT ... FOR UPDATEで
// 直列化される。マルチプロセス・マルチコネクション環境でも
// サイクルが交互に挟まることはない。
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore はPostgresStoreを生成する。
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load は指定キーのドキュメントを取得する。存在しない場合はnilを返す。
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM snapshots WHERE key = $1`, key,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("スナップショットの取得に失敗しました: %w", err)
	}

	if isNullDoc(doc) {
		return nil, nil
	}
	return doc, nil
}

// Update は指定キーに対してload-modify-storeサイクルを原子的に実行する。
func (s *PostgresStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.UpdateMany(ctx, []string{key}, func(docs map[string][]byte) (map[string][]byte, error) {
		newDoc, err := fn(docs[key])
		if err != nil {
			return nil, err
		}
		return map[string][]byte{key: newDoc}, nil
	})
}

// UpdateMany は複数キーのload-modify-storeサイクルを単一トランザクションで実行する。
// デッドロック回避のため、行ロックは常にキーのソート順で取得する。
func (s *PostgresStore) UpdateMany(ctx context.Context, keys []string, fn UpdateManyFunc) error {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	docs := make(map[string][]byte, len(sorted))
	for _, key := range sorted {
		// 行が存在しないとFOR UPDATEでロックできないため、
		// プレースホルダ行を先に確保してからロックを取る。
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (key, doc) VALUES ($1, 'null'::jsonb)
			 ON CONFLICT (key) DO NOTHING`, key,
		); err != nil {
			return fmt.Errorf("スナップショット行の確保に失敗しました: %w", err)
		}

		var doc []byte
		if err := tx.QueryRowContext(ctx,
			`SELECT doc FROM snapshots WHERE key = $1 FOR UPDATE`, key,
		).Scan(&doc); err != nil {
			return fmt.Errorf("スナップショットのロック取得に失敗しました: %w", err)
		}

		if isNullDoc(doc) {
			doc = nil
		}
		docs[key] = doc
	}

	updated, err := fn(docs)
	if err != nil {
		return err
	}

	for key, doc := range updated {
		if doc == nil {
			doc = []byte("null")
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE snapshots SET doc = $2, updated_at = now() WHERE key = $1`,
			key, doc,
		); err != nil {
			return fmt.Errorf("スナップショットの書き込みに失敗しました: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}
	return nil
}

// Ping はデータベース接続を確認する。
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close はデータベース接続を閉じる。
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// isNullDoc はプレースホルダ（JSONのnull）かどうかを判定する。
func isNullDoc(doc []byte) bool {
	return len(doc) == 0 || string(doc) == "null"
}
