package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// スナップショットエンジンの種別。
const (
	EngineFile     = "file"
	EnginePostgres = "postgres"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Snapshot
	SnapshotEngine string // "file" または "postgres"
	DatabaseURL    string // postgresエンジンの場合は必須
	DataDir        string // fileエンジンのスナップショット格納ディレクトリ

	// Worker
	SweepInterval   time.Duration // IsNewフラグのスイープ間隔
	CompactInterval time.Duration // レガシー形式プランの正規化書き戻し間隔

	// Image Fetch
	FetchTimeout time.Duration
	FetchMaxSize int64

	// Rate Limit
	RateLimitGeneral int // req/min/クライアント
	RateLimitUpload  int // req/min/クライアント（ボード写真登録）

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// SNAPSHOT_ENGINE=postgres の場合はDATABASE_URLが必須になる。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.SnapshotEngine = getEnvString("SNAPSHOT_ENGINE", EngineFile)
	if cfg.SnapshotEngine != EngineFile && cfg.SnapshotEngine != EnginePostgres {
		return nil, fmt.Errorf("unsupported SNAPSHOT_ENGINE: %s (allowed: file, postgres)", cfg.SnapshotEngine)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.SnapshotEngine == EnginePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variables are not set: [DATABASE_URL]")
	}

	cfg.DataDir = getEnvString("DATA_DIR", "./data")
	cfg.SweepInterval = getEnvDuration("SWEEP_INTERVAL", 1*time.Hour)
	cfg.CompactInterval = getEnvDuration("COMPACT_INTERVAL", 24*time.Hour)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitUpload = getEnvInt("RATE_LIMIT_UPLOAD", 20)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
