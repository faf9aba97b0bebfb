package snapshot

import (
	"database/sql"
	"fmt"

	"github.com/hitoshi/closetman/internal/config"
)

// NewByEngine は設定されたエンジンに応じたスナップショットストアを生成する。
// postgresエンジンの場合はdbが必須。fileエンジンの場合はdbを無視する。
func NewByEngine(cfg *config.Config, db *sql.DB) (Store, error) {
	switch cfg.SnapshotEngine {
	case config.EnginePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgresエンジンにはデータベース接続が必要です")
		}
		return NewPostgresStore(db), nil
	case config.EngineFile:
		return NewFileStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("未対応のスナップショットエンジンです: %s", cfg.SnapshotEngine)
	}
}
