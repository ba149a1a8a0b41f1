// Package monitoring 提供Prometheus指标
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome 预测请求结果
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeModelUnavailable Outcome = "model_unavailable"
	OutcomeInvalidInput     Outcome = "invalid_input"
	OutcomeMissingFeature   Outcome = "missing_feature"
	OutcomeInvalidValue     Outcome = "invalid_value"
	OutcomeInternalError    Outcome = "internal_error"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	registry *prometheus.Registry

	predictions     *prometheus.CounterVec
	latency         prometheus.Histogram
	cacheHits       prometheus.Counter
	droppedColumns  prometheus.Counter
	modelLoaded     prometheus.Gauge
	predictedLabels *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器，使用独立的registry
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()
	mc := &MetricsCollector{
		registry: registry,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "predict_requests_total",
			Help: "Prediction requests by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "predict_duration_seconds",
			Help:    "Time spent handling a prediction request.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "predict_cache_hits_total",
			Help: "Predictions served from the prediction cache.",
		}),
		droppedColumns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "encoder_dropped_columns_total",
			Help: "Indicator columns discarded because the feature schema does not declare them.",
		}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "model_loaded",
			Help: "1 when a classifier was loaded at startup.",
		}),
		predictedLabels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "predicted_labels_total",
			Help: "Successful predictions by class label.",
		}, []string{"label"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		mc.predictions,
		mc.latency,
		mc.cacheHits,
		mc.droppedColumns,
		mc.modelLoaded,
		mc.predictedLabels,
	)
	return mc
}

// RecordPrediction 记录一次预测请求
func (mc *MetricsCollector) RecordPrediction(outcome Outcome, duration time.Duration) {
	mc.predictions.WithLabelValues(string(outcome)).Inc()
	mc.latency.Observe(duration.Seconds())
}

func (mc *MetricsCollector) RecordLabel(label string, cached bool) {
	mc.predictedLabels.WithLabelValues(label).Inc()
	if cached {
		mc.cacheHits.Inc()
	}
}

func (mc *MetricsCollector) RecordDroppedColumns(n int) {
	mc.droppedColumns.Add(float64(n))
}

// SetModelLoaded 设置模型加载状态
func (mc *MetricsCollector) SetModelLoaded(loaded bool) {
	if loaded {
		mc.modelLoaded.Set(1)
		return
	}
	mc.modelLoaded.Set(0)
}

// Handler 返回/metrics处理器
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}
