package middleware

import (
	"net/http"

	"github.com/hitoshi/closetman/internal/metrics"
)

// NewMetricsMiddleware はレスポンスのステータスコードをメトリクスとして記録する
// ミドルウェアを返す。collectorがnilの場合は何も記録しない。
func NewMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if collector == nil {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
		})
	}
}
