package board

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SSRFValidator はリモート画像取得に必要なSSRF防止機能のインターフェース。
// security.SSRFGuardServiceのサブセット。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration, maxResponseSize int64) *http.Client
}

// ImageFetcherService はリモート画像取得のインターフェース。
type ImageFetcherService interface {
	// FetchAsDataURL は指定URLから画像を取得し、data URL形式で返す。
	// SSRF検証・サイズ上限・Content-Type検証を行い、
	// 失敗時はエラーを返す（faviconと異なり黙って握りつぶさない）。
	FetchAsDataURL(ctx context.Context, imageURL string) (string, error)
}

// ImageFetcher はImageFetcherServiceの実装。
type ImageFetcher struct {
	ssrfGuard SSRFValidator
	timeout   time.Duration
	maxSize   int64
}

// NewImageFetcher はImageFetcherの新しいインスタンスを生成する。
func NewImageFetcher(ssrfGuard SSRFValidator, timeout time.Duration, maxSize int64) *ImageFetcher {
	return &ImageFetcher{
		ssrfGuard: ssrfGuard,
		timeout:   timeout,
		maxSize:   maxSize,
	}
}

// FetchAsDataURL は指定URLから画像を取得し、data URL形式で返す。
func (f *ImageFetcher) FetchAsDataURL(ctx context.Context, imageURL string) (string, error) {
	if err := f.ssrfGuard.ValidateURL(imageURL); err != nil {
		slog.Warn("画像取得: SSRFブロック", "url", imageURL, "error", err)
		return "", errSSRFBlocked
	}

	client := f.ssrfGuard.NewSafeClient(f.timeout, f.maxSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "Closetman/1.0 Wardrobe Planner")

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("画像取得: HTTPリクエスト失敗", "url", imageURL, "error", err)
		return "", fmt.Errorf("画像の取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("画像取得: HTTPステータス異常", "url", imageURL, "status", resp.StatusCode)
		return "", fmt.Errorf("画像の取得に失敗しました: HTTPステータス %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("レスポンスの読み取りに失敗しました: %w", err)
	}
	if int64(len(body)) > f.maxSize {
		slog.Warn("画像取得: サイズ超過", "url", imageURL, "size", len(body))
		return "", fmt.Errorf("画像サイズが上限（%dバイト）を超えています", f.maxSize)
	}

	mimeType := extractMimeType(resp.Header.Get("Content-Type"))
	if !isImageMime(mimeType) {
		slog.Warn("画像取得: 画像以外のContent-Type", "url", imageURL, "contentType", mimeType)
		return "", fmt.Errorf("画像以外のContent-Typeです: %s", mimeType)
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(body)), nil
}

// extractMimeType はContent-Typeヘッダからメディアタイプ部分を取り出す。
func extractMimeType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// isImageMime はメディアタイプが画像かを判定する。
func isImageMime(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}
