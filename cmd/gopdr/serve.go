package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gopdr/internal/batch"
	"github.com/gitrdm/gopdr/pkg/pdr"
)

var (
	addr       string
	watchDir   string
	watchEvery time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "expose /metrics and /healthz, optionally re-running a benchmark directory on an interval",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":9090", "address to listen on")
	serveCmd.Flags().StringVar(&watchDir, "dir", "", "benchmark directory to re-check on --interval (disabled if empty)")
	serveCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "watch batch worker pool size (<=0 uses runtime.NumCPU)")
	serveCmd.Flags().DurationVar(&watchEvery, "interval", time.Minute, "how often to re-check --dir")
}

// engineMetrics republishes each run's verdict and pdr.Stats counters as Prometheus
// gauges, one label set per benchmark path, so a scraper sees the most
// recent run's outcome and counters without gopdr exporting its own
// scrape format.
type engineMetrics struct {
	status      *prometheus.GaugeVec
	obligations *prometheus.GaugeVec
	framesGrown *prometheus.GaugeVec
	preimages   *prometheus.GaugeVec
	generalizes *prometheus.GaugeVec
}

func newEngineMetrics(reg prometheus.Registerer) *engineMetrics {
	f := promauto.With(reg)
	return &engineMetrics{
		status: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gopdr",
			Name:      "benchmark_status",
			Help:      "Last check's verdict per benchmark (0=Inconclusive, 1=Proved, 2=Refuted).",
		}, []string{"path"}),
		obligations: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gopdr",
			Name:      "obligations_processed",
			Help:      "Proof obligations processed in the last run of each benchmark.",
		}, []string{"path"}),
		framesGrown: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gopdr",
			Name:      "frames_grown",
			Help:      "Frames appended to the trace in the last run of each benchmark.",
		}, []string{"path"}),
		preimages: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gopdr",
			Name:      "preimages_computed",
			Help:      "Preimages computed in the last run of each benchmark.",
		}, []string{"path"}),
		generalizes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gopdr",
			Name:      "generalizations",
			Help:      "Cube generalizations performed in the last run of each benchmark.",
		}, []string{"path"}),
	}
}

func (m *engineMetrics) recordRun(results []batch.JobResult) {
	for _, r := range results {
		m.status.WithLabelValues(r.Path).Set(float64(r.Result.Status))
		m.obligations.WithLabelValues(r.Path).Set(float64(r.Result.Stats.ObligationsProcessed))
		m.framesGrown.WithLabelValues(r.Path).Set(float64(r.Result.Stats.FramesGrown))
		m.preimages.WithLabelValues(r.Path).Set(float64(r.Result.Stats.PreimagesComputed))
		m.generalizes.WithLabelValues(r.Path).Set(float64(r.Result.Stats.Generalizations))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	reg := prometheus.NewRegistry()
	metrics := newEngineMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if watchDir != "" {
		go watchBenchmarks(ctx, watchDir, watchEvery, metrics)
	}

	server := &http.Server{Addr: addr, Handler: mux}
	logger.Info("serving", "addr", addr, "watch_dir", watchDir)
	return server.ListenAndServe()
}

func watchBenchmarks(ctx context.Context, dir string, interval time.Duration, metrics *engineMetrics) {
	run := func() {
		results, err := batch.RunDir(ctx, dir, concurrency, logger, pdr.WithMaxFrames(maxFrames))
		if err != nil {
			logger.Warn("watched batch run reported errors", "dir", dir, "error", err)
		}
		metrics.recordRun(results)
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
