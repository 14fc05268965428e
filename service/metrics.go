package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 上传结果标签
const (
	ResultCreated   = "created"
	ResultDuplicate = "duplicate"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// Metrics 导入相关的 Prometheus 指标
type Metrics struct {
	Uploads        *prometheus.CounterVec
	SkippedRows    *prometheus.CounterVec
	OutlaysCreated prometheus.Counter
	IngestDuration prometheus.Histogram
}

// NewMetrics 在 reg 上注册指标；reg 为 nil 时使用默认注册表
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trialbalance",
			Name:      "uploads_total",
			Help:      "Statement uploads by result.",
		}, []string{"result"}),
		SkippedRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trialbalance",
			Name:      "skipped_rows_total",
			Help:      "Rows dropped during classification, by reason.",
		}, []string{"reason"}),
		OutlaysCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "trialbalance",
			Name:      "outlays_created_total",
			Help:      "Outlay rows persisted.",
		}),
		IngestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trialbalance",
			Name:      "ingest_duration_seconds",
			Help:      "Wall time of one ingestion run.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
