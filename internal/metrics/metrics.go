// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// anilist.UpstreamRecorderとcompare.OutcomeRecorderを満たす。
type Collector struct {
	upstreamRequests prometheus.Counter
	upstreamStatus   *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	compareOutcome   *prometheus.CounterVec
	commonEntries    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anicmp_upstream_request_total",
			Help: "AniList APIへのリクエスト合計数",
		}),
		upstreamStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anicmp_upstream_status_total",
			Help: "AniList APIのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anicmp_upstream_latency_seconds",
			Help:    "AniList API呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		compareOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anicmp_compare_total",
			Help: "比較処理の結果別の合計数",
		}, []string{"outcome"}),
		commonEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anicmp_common_entries",
			Help:    "比較成功時の共通作品数の分布",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamStatus,
		c.upstreamLatency,
		c.compareOutcome,
		c.commonEntries,
	)

	return c
}

// RecordUpstreamStatus はアップストリームのHTTPステータスコードを記録する。
func (c *Collector) RecordUpstreamStatus(statusCode int) {
	c.upstreamRequests.Inc()
	c.upstreamStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordUpstreamLatency はアップストリーム呼び出しのレイテンシを記録する。
func (c *Collector) RecordUpstreamLatency(duration time.Duration) {
	c.upstreamLatency.Observe(duration.Seconds())
}

// RecordCompareOutcome は比較処理の結果を記録する。
// outcome: success, validation_error, user_not_found, empty_list, upstream_error
func (c *Collector) RecordCompareOutcome(outcome string) {
	c.compareOutcome.WithLabelValues(outcome).Inc()
}

// RecordCommonEntries は比較成功時の共通作品数を記録する。
func (c *Collector) RecordCommonEntries(count int) {
	c.commonEntries.Observe(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
