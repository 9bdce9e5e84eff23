package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APICalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallfetch_api_calls_total",
		Help: "Total VK API calls by method",
	}, []string{"method"})
	APIErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallfetch_api_errors_total",
		Help: "Total failed VK API calls by method",
	}, []string{"method"})
	Posts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallfetch_posts_total",
		Help: "Posts processed by outcome (fetched, missing)",
	}, []string{"outcome"})
	Comments = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallfetch_comments_total",
		Help: "Comments and replies emitted",
	})
	Runs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallfetch_runs_total",
		Help: "Total range runs",
	})
	RunErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wallfetch_run_errors_total",
		Help: "Total aborted range runs",
	})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallfetch_run_duration_seconds",
		Help:    "Range run duration seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallfetch_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"cmd"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallfetch_command_errors_total",
		Help: "CLI command failures",
	}, []string{"cmd"})
)

func init() {
	prometheus.MustRegister(APICalls, APIErrors, Posts, Comments, Runs, RunErrors, RunDuration, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// An empty addr disables it.
func StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveRunDuration records a run duration.
func ObserveRunDuration(start time.Time) {
	RunDuration.Observe(time.Since(start).Seconds())
}

func IncAPICall(method string)   { APICalls.WithLabelValues(method).Inc() }
func IncAPIError(method string)  { APIErrors.WithLabelValues(method).Inc() }
func IncPost(outcome string)     { Posts.WithLabelValues(outcome).Inc() }
func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
