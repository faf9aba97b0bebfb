// Package board はアウトフィットボード（コーディネート写真ギャラリー）の
// ドメインロジックを提供する。
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/closetman/internal/model"
	"github.com/hitoshi/closetman/internal/repository"
	"github.com/hitoshi/closetman/internal/security"
)

// errSSRFBlocked はSSRF検証で拒否されたことを示す内部エラー。
var errSSRFBlocked = errors.New("SSRF検証で拒否されました")

// Service はボード管理のサービス層。
// 写真の追加（data URL直接・リモートURL経由）、メモ編集、削除を提供する。
type Service struct {
	boardRepo repository.BoardRepository
	fetcher   ImageFetcherService
	sanitizer security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(boardRepo repository.BoardRepository, fetcher ImageFetcherService, sanitizer security.ContentSanitizerService) *Service {
	return &Service{boardRepo: boardRepo, fetcher: fetcher, sanitizer: sanitizer}
}

// ListPhotos は全写真を返す。
func (s *Service) ListPhotos(ctx context.Context) ([]model.BoardPhoto, error) {
	photos, err := s.boardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("写真一覧の取得に失敗しました: %w", err)
	}
	return photos, nil
}

// AddPhotos はdata URL形式の画像を複数まとめて追加する。
// 全画像に同一のメモが付与される（アップロードフォームの挙動）。
func (s *Service) AddPhotos(ctx context.Context, images []string, notes string) ([]model.BoardPhoto, error) {
	if len(images) == 0 {
		return nil, model.NewValidationError("画像を1枚以上指定してください")
	}
	for _, image := range images {
		if !strings.HasPrefix(image, "data:image/") {
			return nil, model.NewValidationError("画像はdata URL形式で指定してください")
		}
	}

	sanitized := s.sanitizer.Sanitize(notes)
	added := make([]model.BoardPhoto, 0, len(images))
	for _, image := range images {
		photo := &model.BoardPhoto{
			ID:        uuid.New().String(),
			Image:     image,
			Notes:     sanitized,
			CreatedAt: time.Now(),
		}
		if err := s.boardRepo.Create(ctx, photo); err != nil {
			return nil, fmt.Errorf("写真の追加に失敗しました: %w", err)
		}
		added = append(added, *photo)
	}
	return added, nil
}

// RegisterRemoteImage は指定URLから画像を取得してボードに追加する。
// 取得した画像はdata URLとして保存され、以後リモートには依存しない。
func (s *Service) RegisterRemoteImage(ctx context.Context, imageURL, notes string) (*model.BoardPhoto, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, model.NewInvalidURLError("画像URLを入力してください")
	}

	dataURL, err := s.fetcher.FetchAsDataURL(ctx, imageURL)
	if err != nil {
		if errors.Is(err, errSSRFBlocked) {
			return nil, model.NewSSRFBlockedError()
		}
		return nil, model.NewFetchFailedError(err.Error())
	}

	photo := &model.BoardPhoto{
		ID:        uuid.New().String(),
		Image:     dataURL,
		Notes:     s.sanitizer.Sanitize(notes),
		CreatedAt: time.Now(),
	}
	if err := s.boardRepo.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("写真の追加に失敗しました: %w", err)
	}
	return photo, nil
}

// UpdateNotes は指定IDの写真のメモを更新する。
func (s *Service) UpdateNotes(ctx context.Context, id, notes string) error {
	if err := s.boardRepo.UpdateNotes(ctx, id, s.sanitizer.Sanitize(notes)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewPhotoNotFoundError(id)
		}
		return fmt.Errorf("写真メモの更新に失敗しました: %w", err)
	}
	return nil
}

// DeletePhoto は指定IDの写真を削除する。
func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	if err := s.boardRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.NewPhotoNotFoundError(id)
		}
		return fmt.Errorf("写真の削除に失敗しました: %w", err)
	}
	return nil
}
