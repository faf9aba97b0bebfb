// Package sweep は新着フラグの自動解除ジョブを提供する。
// 追加から7日を超過したアイテムのisNewフラグを定期バッチで解除する。
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/closetman/internal/metrics"
)

// Sweeper は新着フラグ解除の実行インターフェース。
// closet.Serviceの部分集合として定義する。
type Sweeper interface {
	// SweepExpiredNew は期限切れの新着フラグを解除し、解除件数を返す。
	SweepExpiredNew(ctx context.Context, now time.Time) (int, error)
}

// SweepJob は新着フラグ解除の定期ジョブ。
// 冪等: 解除対象がない場合でもエラーにならない。
type SweepJob struct {
	sweeper   Sweeper
	logger    *slog.Logger
	collector metrics.MetricsCollector // nilの場合は記録しない
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(sweeper Sweeper, logger *slog.Logger, collector metrics.MetricsCollector) *SweepJob {
	return &SweepJob{
		sweeper:   sweeper,
		logger:    logger,
		collector: collector,
	}
}

// Run は期限切れの新着フラグを1回スイープする。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	cleared, err := j.sweeper.SweepExpiredNew(ctx, time.Now())
	if err != nil {
		j.logger.Error("新着フラグスイープの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("新着フラグスイープの実行に失敗: %w", err)
	}

	if j.collector != nil {
		j.collector.RecordSweepCleared(cleared)
	}

	duration := time.Since(start)
	j.logger.Info("新着フラグスイープが完了しました",
		slog.Int("cleared_count", cleared),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は指定間隔のティッカーでジョブを起動する。
// 起動直後に1回実行し、コンテキストがキャンセルされるまで継続する。
func (j *SweepJob) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("新着フラグスイープを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := j.Run(ctx); err != nil {
		j.logger.Error("新着フラグスイープに失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("新着フラグスイープを停止しました")
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("新着フラグスイープに失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
