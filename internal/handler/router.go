package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/closetman/internal/metrics"
	"github.com/hitoshi/closetman/internal/middleware"
)

// Pinger はヘルスチェックに必要なストア疎通確認のインターフェース。
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	Logger            *slog.Logger
	RateLimiter       *middleware.RateLimiter
	Collector         metrics.MetricsCollector // nil可
	MetricsHandler    http.Handler             // nilの場合は/metricsを公開しない

	// ヘルスチェック
	Store Pinger

	// サービス
	ItemService       ItemServiceInterface
	PlanService       PlanServiceInterface
	CollectionService CollectionServiceInterface
	WishlistService   WishlistServiceInterface
	BoardService      BoardServiceInterface
	UsageService      UsageServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics → RateLimit(General)
//
// /healthz と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewMetricsMiddleware(deps.Collector))

	itemHandler := NewItemHandler(deps.ItemService)
	planHandler := NewPlanHandler(deps.PlanService)
	collectionHandler := NewCollectionHandler(deps.CollectionService)
	wishlistHandler := NewWishlistHandler(deps.WishlistService)
	boardHandler := NewBoardHandler(deps.BoardService)
	usageHandler := NewUsageHandler(deps.UsageService, deps.Collector)
	themeHandler := NewThemeHandler()

	// --- 運用エンドポイント（レート制限の外） ---

	r.Get("/healthz", newHealthzHandler(deps.Store))

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ワードローブアイテム
		r.Route("/api/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itemHandler.GetItem)
				r.Delete("/", itemHandler.DeleteItem)
				r.Put("/favorite", itemHandler.SetFavorite)
				r.Post("/worn", itemHandler.MarkWorn)
			})
		})

		// コーディネート計画
		r.Route("/api/plans", func(r chi.Router) {
			r.Get("/", planHandler.ListPlans)

			r.Route("/{dateKey}", func(r chi.Router) {
				r.Get("/", planHandler.GetOutfit)
				r.Put("/", planHandler.SetOutfit)
				r.Delete("/", planHandler.DeleteOutfit)
				r.Post("/items", planHandler.AddItems)
				r.Delete("/items", planHandler.RemoveItems)
				r.Post("/clear", planHandler.ClearOutfit)
			})
		})

		// コレクション
		r.Route("/api/collections", func(r chi.Router) {
			r.Get("/", collectionHandler.ListCollections)
			r.Post("/", collectionHandler.CreateCollection)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", collectionHandler.GetCollection)
				r.Patch("/", collectionHandler.RenameCollection)
				r.Delete("/", collectionHandler.DeleteCollection)
			})
		})

		// ウィッシュリスト
		r.Route("/api/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.ListWishes)
			r.Post("/", wishlistHandler.AddWish)
			r.Get("/suggestions", wishlistHandler.Suggest)
			r.Delete("/{id}", wishlistHandler.RemoveWish)
		})

		// アウトフィットボード
		r.Route("/api/board", func(r chi.Router) {
			r.Get("/", boardHandler.ListPhotos)

			// 写真登録は重い処理のため専用レート制限を追加で適用
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/", boardHandler.AddPhotos)
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/remote", boardHandler.RegisterRemoteImage)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", boardHandler.UpdateNotes)
				r.Delete("/", boardHandler.DeletePhoto)
			})
		})

		// 利用状況集計
		r.Route("/api/usage", func(r chi.Router) {
			r.Get("/", usageHandler.GetUsage)
			r.Get("/colors", usageHandler.GetColorUsage)
			r.Get("/old", usageHandler.GetOldItems)
			r.Post("/packing", usageHandler.CreatePackingList)
		})

		// 週替わりテーマ
		r.Route("/api/theme", func(r chi.Router) {
			r.Get("/", themeHandler.GetTheme)
			r.Get("/cycle", themeHandler.GetCycle)
		})
	})

	return r
}

// newHealthzHandler はストアへの疎通確認を行うヘルスチェックハンドラーを返す。
func newHealthzHandler(store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
