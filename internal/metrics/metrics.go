package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "talleres"

// Registry 应用级 Prometheus 注册表，/metrics 只暴露此注册表
var Registry = prometheus.NewRegistry()

// AppInfo 版本信息（值恒为 1，信息在 label 中）
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information",
	},
	[]string{"version"},
)

// ── 报名 ──

// 报名结果标签值
const (
	OutcomeEnrolled         = "enrolled"
	OutcomeWorkshopNotFound = "workshop_not_found"
	OutcomeWorkshopInactive = "workshop_inactive"
	OutcomeAlreadyEnrolled  = "already_enrolled"
	OutcomeNoCapacity       = "no_capacity"
	OutcomeError            = "error"
)

var (
	// EnrollmentsTotal 按结果统计报名请求
	EnrollmentsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollments_total",
			Help:      "Total number of enrollment attempts by outcome",
		},
		[]string{"outcome"},
	)

	// EnrollmentRetries 串行化失败 / 死锁导致的事务重试次数
	EnrollmentRetries = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrollment_retries_total",
			Help:      "Total number of enrollment transaction retries",
		},
		[]string{"sqlstate"},
	)

	// EnrollmentDuration 报名事务耗时（含重试）
	EnrollmentDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrollment_duration_seconds",
			Help:      "Enrollment transaction duration in seconds, retries included",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)
)

// Init 注册运行时采集器并写入版本信息
func Init(version string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version).Set(1)
}
