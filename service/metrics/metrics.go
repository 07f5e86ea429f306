/*
 * @module service/metrics/metrics
 * @description Prometheus指标定义,记录验证次数、耗时与注册规则数
 * @architecture 工具层 - 指标采集
 * @documentReference dev_docs/requirements.md
 * @stateFlow 服务启动注册指标 -> 验证流程打点 -> /metrics暴露
 * @rules 指标通过promauto注册到默认Registry,由main挂载promhttp暴露
 * @dependencies github.com/prometheus/client_golang/prometheus
 * @refs main.go, service/design/design_service.go
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal 验证总次数,按模式与结果区分
	ValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "netdesign",
		Name:      "validations_total",
		Help:      "网络设计验证总次数",
	}, []string{"mode", "outcome"})

	// ValidationDuration 验证耗时分布
	ValidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "netdesign",
		Name:      "validation_duration_seconds",
		Help:      "单次验证耗时(秒)",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	// RegisteredRules 当前注册的验证规则数
	RegisteredRules = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "netdesign",
		Name:      "registered_rules",
		Help:      "当前注册的验证规则数量",
	})

	// FallbackAssessments 概率性评估降级次数
	FallbackAssessments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "netdesign",
		Name:      "fallback_assessments_total",
		Help:      "概率性评估服务不可用触发降级的次数",
	})
)

// RecordValidation 记录一次验证结果
func RecordValidation(mode string, passed bool, seconds float64) {
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	ValidationsTotal.WithLabelValues(mode, outcome).Inc()
	ValidationDuration.Observe(seconds)
}
