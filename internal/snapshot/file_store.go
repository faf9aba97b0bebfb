package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore はJSONファイルを使用したスナップショットストア。
// キーごとに1ファイル（<データディレクトリ>/<key>.json）を保持する。
// 全キー共通の1つのミューテックスでload-modify-storeサイクルを直列化するため、
// UpdateManyの複数キー更新も途中状態を観測されない。
// 書き込みは一時ファイル経由のrenameで行い、部分書き込みを防ぐ。
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore はFileStoreを生成する。データディレクトリがなければ作成する。
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("データディレクトリの作成に失敗しました: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load は指定キーのドキュメントを取得する。ファイルが存在しない場合はnilを返す。
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(key)
}

// Update は指定キーに対してload-modify-storeサイクルを原子的に実行する。
func (s *FileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readLocked(key)
	if err != nil {
		return err
	}

	newDoc, err := fn(doc)
	if err != nil {
		return err
	}

	return s.writeLocked(key, newDoc)
}

// UpdateMany は複数キーのload-modify-storeサイクルを単一のロック区間で実行する。
func (s *FileStore) UpdateMany(ctx context.Context, keys []string, fn UpdateManyFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make(map[string][]byte, len(keys))
	for _, key := range keys {
		doc, err := s.readLocked(key)
		if err != nil {
			return err
		}
		docs[key] = doc
	}

	updated, err := fn(docs)
	if err != nil {
		return err
	}

	for key, doc := range updated {
		if err := s.writeLocked(key, doc); err != nil {
			return err
		}
	}
	return nil
}

// Ping はデータディレクトリが利用可能かを確認する。
func (s *FileStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("データディレクトリにアクセスできません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("データディレクトリがディレクトリではありません: %s", s.dir)
	}
	return nil
}

// Close は何もしない。FileStoreは開いたままのリソースを持たない。
func (s *FileStore) Close() error {
	return nil
}

// readLocked はロック取得済みの状態でファイルを読み込む。
func (s *FileStore) readLocked(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("スナップショットの読み込みに失敗しました: %w", err)
	}
	return data, nil
}

// writeLocked はロック取得済みの状態で一時ファイル経由の書き込みを行う。
func (s *FileStore) writeLocked(key string, doc []byte) error {
	if doc == nil {
		doc = []byte("null")
	}

	path := s.path(key)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, doc, 0o644); err != nil {
		return fmt.Errorf("スナップショットの書き込みに失敗しました: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("スナップショットの置き換えに失敗しました: %w", err)
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
