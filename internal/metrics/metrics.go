// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカー、リポジトリの正規化境界から利用する。
type MetricsCollector interface {
	RecordMutation(store string)
	RecordLegacyShape(shape string)
	RecordSweepCleared(count int)
	RecordCompactMigrated(count int)
	RecordHTTPStatus(statusCode int)
	RecordUsageComputeLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	mutations           *prometheus.CounterVec
	legacyShapes        *prometheus.CounterVec
	sweepCleared        prometheus.Counter
	compactMigrated     prometheus.Counter
	httpStatus          *prometheus.CounterVec
	usageComputeLatency prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "closetman_store_mutations_total",
			Help: "ストアキー別の変更操作の合計数",
		}, []string{"store"}),
		legacyShapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "closetman_legacy_plan_shapes_total",
			Help: "読み取り時に正規化された歴史的形式の計画レコード数（形式別）",
		}, []string{"shape"}),
		sweepCleared: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "closetman_sweep_cleared_total",
			Help: "スイープで解除された新着フラグの合計数",
		}),
		compactMigrated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "closetman_compact_migrated_total",
			Help: "正規形に書き換えられた計画レコードの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "closetman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		usageComputeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "closetman_usage_compute_latency_seconds",
			Help:    "利用状況集計のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.mutations,
		c.legacyShapes,
		c.sweepCleared,
		c.compactMigrated,
		c.httpStatus,
		c.usageComputeLatency,
	)

	return c
}

// RecordMutation はストアへの変更操作を記録する。
func (c *Collector) RecordMutation(store string) {
	c.mutations.WithLabelValues(store).Inc()
}

// RecordLegacyShape は歴史的形式の計画レコードの読み取りを記録する。
func (c *Collector) RecordLegacyShape(shape string) {
	c.legacyShapes.WithLabelValues(shape).Inc()
}

// RecordSweepCleared はスイープで解除された新着フラグ数を記録する。
func (c *Collector) RecordSweepCleared(count int) {
	c.sweepCleared.Add(float64(count))
}

// RecordCompactMigrated は正規形に書き換えられたレコード数を記録する。
func (c *Collector) RecordCompactMigrated(count int) {
	c.compactMigrated.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordUsageComputeLatency は利用状況集計のレイテンシを記録する。
func (c *Collector) RecordUsageComputeLatency(duration time.Duration) {
	c.usageComputeLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
