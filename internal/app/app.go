package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/closetman/internal/board"
	"github.com/hitoshi/closetman/internal/closet"
	"github.com/hitoshi/closetman/internal/collection"
	"github.com/hitoshi/closetman/internal/config"
	"github.com/hitoshi/closetman/internal/database"
	"github.com/hitoshi/closetman/internal/handler"
	"github.com/hitoshi/closetman/internal/logger"
	"github.com/hitoshi/closetman/internal/metrics"
	"github.com/hitoshi/closetman/internal/middleware"
	"github.com/hitoshi/closetman/internal/planner"
	"github.com/hitoshi/closetman/internal/repository"
	"github.com/hitoshi/closetman/internal/security"
	"github.com/hitoshi/closetman/internal/snapshot"
	"github.com/hitoshi/closetman/internal/usage"
	"github.com/hitoshi/closetman/internal/wishlist"
	"github.com/hitoshi/closetman/internal/worker/compact"
	"github.com/hitoshi/closetman/internal/worker/sweep"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("snapshot_engine", cfg.SnapshotEngine),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// openStore は設定に応じたスナップショットストアを開く。
// postgresエンジンの場合はDB接続も開き、呼び出し側がClose()すべき*sql.DBを返す。
// fileエンジンの場合はdbはnilになる。
func openStore(cfg *config.Config) (snapshot.Store, *sql.DB, error) {
	var db *sql.DB
	if cfg.SnapshotEngine == config.EnginePostgres {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}

		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		slog.Info("database connection established")
	}

	store, err := snapshot.NewByEngine(cfg, db)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}

	return store, db, nil
}

// runServe はAPIサーバーモードで起動する。
// スナップショットストアを開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクスの初期化
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	// 2. スナップショットストアのオープン
	rawStore, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	store := snapshot.NewInstrumentedStore(rawStore, collector.RecordMutation)
	defer store.Close()

	// 3. リポジトリの初期化
	itemRepo := repository.NewSnapshotItemRepo(store)
	planRepo := repository.NewSnapshotPlanRepo(store)
	planRepo.ShapeObserver = collector.RecordLegacyShape
	collectionRepo := repository.NewSnapshotCollectionRepo(store)
	wishRepo := repository.NewSnapshotWishlistRepo(store)
	boardRepo := repository.NewSnapshotBoardRepo(store)

	// 4. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	// 5. ドメインサービスの初期化
	itemService := closet.NewService(itemRepo)
	planService := planner.NewService(planRepo, sanitizer)
	collectionService := collection.NewService(collectionRepo)
	wishlistService := wishlist.NewService(wishRepo, itemRepo)

	imageFetcher := board.NewImageFetcher(ssrfGuard, cfg.FetchTimeout, cfg.FetchMaxSize)
	boardService := board.NewService(boardRepo, imageFetcher, sanitizer)

	usageService := usage.NewService(itemRepo, planRepo)

	// 6. レートリミッターの初期化
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitUpload),
	)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		Logger:            slog.Default(),
		RateLimiter:       rateLimiter,
		Collector:         collector,
		MetricsHandler:    metrics.SetupMetricsRoute(reg),

		Store: store,

		ItemService:       itemService,
		PlanService:       planService,
		CollectionService: collectionService,
		WishlistService:   wishlistService,
		BoardService:      boardService,
		UsageService:      usageService,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// スナップショットストアを開き、スイープジョブとコンパクションジョブを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. メトリクスの初期化
	// ワーカーモードはHTTP公開を行わないが、カウンタの配線は本番と揃えておく。
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	// 2. スナップショットストアのオープン
	rawStore, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	store := snapshot.NewInstrumentedStore(rawStore, collector.RecordMutation)
	defer store.Close()

	// 3. リポジトリとサービスの初期化
	itemRepo := repository.NewSnapshotItemRepo(store)
	planRepo := repository.NewSnapshotPlanRepo(store)
	planRepo.ShapeObserver = collector.RecordLegacyShape
	itemService := closet.NewService(itemRepo)

	// 4. ジョブの初期化
	sweepJob := sweep.NewSweepJob(itemService, slog.Default(), collector)
	compactJob := compact.NewCompactJob(planRepo, slog.Default(), collector)

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("sweep_interval", cfg.SweepInterval),
		slog.Duration("compact_interval", cfg.CompactInterval),
	)

	// スイープジョブをバックグラウンドで起動
	go sweepJob.Start(ctx, cfg.SweepInterval)

	// コンパクションジョブをメインgoroutineで実行（ブロッキング）
	compactJob.Start(ctx, cfg.CompactInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
// postgresエンジン専用のサブコマンドで、fileエンジンでは不要。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("migrate requires DATABASE_URL (snapshot engine: %s)", cfg.SnapshotEngine)
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
