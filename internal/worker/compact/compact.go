// Package compact は計画ストアの正規形書き戻しジョブを提供する。
// 歴史的形式で保存された計画レコードを定期バッチで正規形エンコーディングに
// 書き換え、以後の読み取りの正規化コストをなくす。
package compact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/closetman/internal/metrics"
)

// Compactor は正規形書き戻しの実行インターフェース。
// repository.PlanRepositoryの部分集合として定義する。
type Compactor interface {
	// Compact は保存中の全計画を正規形に書き換え、書き換え件数を返す。
	Compact(ctx context.Context) (int, error)
}

// CompactJob は計画ストアの正規形書き戻しジョブ。
// 冪等: 全レコードが正規形なら書き換え件数0で完了する。
type CompactJob struct {
	compactor Compactor
	logger    *slog.Logger
	collector metrics.MetricsCollector // nilの場合は記録しない
}

// NewCompactJob は新しいCompactJobを生成する。
func NewCompactJob(compactor Compactor, logger *slog.Logger, collector metrics.MetricsCollector) *CompactJob {
	return &CompactJob{
		compactor: compactor,
		logger:    logger,
		collector: collector,
	}
}

// Run は計画ストアを1回コンパクションする。
func (j *CompactJob) Run(ctx context.Context) error {
	start := time.Now()

	migrated, err := j.compactor.Compact(ctx)
	if err != nil {
		j.logger.Error("計画コンパクションの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("計画コンパクションの実行に失敗: %w", err)
	}

	if j.collector != nil {
		j.collector.RecordCompactMigrated(migrated)
	}

	duration := time.Since(start)
	j.logger.Info("計画コンパクションが完了しました",
		slog.Int("migrated_count", migrated),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は指定間隔のティッカーでジョブを起動する。
// 起動直後に1回実行し、コンテキストがキャンセルされるまで継続する。
func (j *CompactJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("計画コンパクションを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := j.Run(ctx); err != nil {
		j.logger.Error("計画コンパクションに失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("計画コンパクションを停止しました")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("計画コンパクションに失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
