// Package collection はコレクション（コーディネートの名前付きグルーピング）の
// ドメインロジックを提供する。
package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/repository"
)

// Service はコレクション管理のサービス層。
type Service struct {
	collectionRepo repository.CollectionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(collectionRepo repository.CollectionRepository) *Service {
	return &Service{collectionRepo: collectionRepo}
}

// ListCollections は全コレクションを返す。
func (s *Service) ListCollections(ctx context.Context) ([]model.Collection, error) {
	collections, err := s.collectionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("コレクション一覧の取得に失敗しました: %w", err)
	}
	return collections, nil
}

// GetCollection は指定IDのコレクションを返す。
func (s *Service) GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	collection, err := s.collectionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("コレクションの取得に失敗しました: %w", err)
	}
	if collection == nil {
		return nil, model.NewCollectionNotFoundError(id)
	}
	return collection, nil
}

// CreateCollection はコレクションを作成する。
// 名前は大文字小文字を区別せずに一意でなければならない。
func (s *Service) CreateCollection(ctx context.Context, name string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewValidationError("コレクション名を入力してください")
	}

	collection := &model.Collection{
		ID:   uuid.New().String(),
		Name: name,
	}
	if err := s.collectionRepo.Create(ctx, collection); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, model.NewDuplicateCollectionNameError(name)
		}
		return nil, fmt.Errorf("コレクションの作成に失敗しました: %w", err)
	}
	return collection, nil
}

// RenameCollection はコレクション名を変更する。重複判定は自身を除く。
func (s *Service) RenameCollection(ctx context.Context, id, newName string) (*model.Collection, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, model.NewValidationError("コレクション名を入力してください")
	}

	if err := s.collectionRepo.Rename(ctx, id, newName); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, model.NewCollectionNotFoundError(id)
		case errors.Is(err, repository.ErrDuplicateName):
			return nil, model.NewDuplicateCollectionNameError(newName)
		}
		return nil, fmt.Errorf("コレクション名の変更に失敗しました: %w", err)
	}
	return &model.Collection{ID: id, Name: newName}, nil
}

// DeleteCollection はコレクションを削除し、参照している全計画の
// CollectionIDを原子的に解除する。
func (s *Service) DeleteCollection(ctx context.Context, id string) error {
	if err := s.collectionRepo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewCollectionNotFoundError(id)
		}
		return fmt.Errorf("コレクションの削除に失敗しました: %w", err)
	}
	return nil
}
