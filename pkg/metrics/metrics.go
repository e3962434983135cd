package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics Prometheus 指标集合。nil 接收者上的方法均为空操作。
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	reconciled      prometheus.Counter
	excused         prometheus.Counter
	batchEntries    *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	purged          prometheus.Counter
}

// New 初始化独立 registry 与业务指标
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gate_http_requests_total",
		Help: "HTTP 请求数（按路由与状态码）",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campus_gate_http_request_duration_seconds",
		Help:    "HTTP 请求耗时（按路由）",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campus_gate_attendance_reconciled_total",
		Help: "已完成公假调整的考勤提交数",
	})
	excused := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campus_gate_attendance_excused_total",
		Help: "因公假从缺勤名单中移除的学生人次",
	})
	batch := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gate_batch_entries_total",
		Help: "批量接口逐条处理结果（按操作与结果原因）",
	}, []string{"operation", "outcome"})

	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_gate_job_runs_total",
		Help: "后台任务执行次数（按任务类型与结果）",
	}, []string{"task", "outcome"})
	purged := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campus_gate_od_approvals_purged_total",
		Help: "过期清理删除的公假审批条数",
	})

	registry.MustRegister(requests, duration, reconciled, excused, batch, jobs, purged)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		reconciled:      reconciled,
		excused:         excused,
		batchEntries:    batch,
		jobRuns:         jobs,
		purged:          purged,
	}
}

// Handler /metrics 端点
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRequest 记录一次 HTTP 请求
func (m *Metrics) ObserveRequest(route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(latency.Seconds())
}

// RecordReconciliation 记录一次考勤调整及被豁免人数
func (m *Metrics) RecordReconciliation(excused int) {
	if m == nil {
		return
	}
	m.reconciled.Inc()
	m.excused.Add(float64(excused))
}

// RecordBatchEntry 记录批量接口单条结果，outcome 为 accepted 或拒绝原因码
func (m *Metrics) RecordBatchEntry(operation, outcome string) {
	if m == nil {
		return
	}
	m.batchEntries.WithLabelValues(operation, outcome).Inc()
}

// RecordJobRun 记录一次后台任务执行；err 非空记为 failed
func (m *Metrics) RecordJobRun(task string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.jobRuns.WithLabelValues(task, outcome).Inc()
}

// RecordPurged 累加清理删除的审批条数
func (m *Metrics) RecordPurged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.purged.Add(float64(n))
}
