package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "partialdocs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	overlayDuration *prom.HistogramVec
	filesOverlaid   *prom.CounterVec
	collisions      *prom.CounterVec
	buildOutcome    *prom.CounterVec
	packDuration    prom.Histogram
	packOutcome     *prom.CounterVec
	archiveBytes    prom.Histogram
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		overlayDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "overlay_duration_seconds",
			Help:      "Duration of overlaying one documentation package",
			Buckets:   prom.DefBuckets,
		}, []string{"package"}),
		filesOverlaid: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_overlaid_total",
			Help:      "Files injected into the merged file set by kind",
		}, []string{"kind"}),
		collisions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Destination path collisions by resolution",
		}, []string{"resolution"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		packDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pack_duration_seconds",
			Help:      "Duration of packaging a documentation folder",
			Buckets:   prom.DefBuckets,
		}),
		packOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pack_outcomes_total",
			Help:      "Packaging outcomes by final status",
		}, []string{"outcome"}),
		archiveBytes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "archive_size_bytes",
			Help:      "Size of written archives",
			Buckets:   prom.ExponentialBuckets(1024, 4, 10),
		}),
	}
	reg.MustRegister(pr.overlayDuration, pr.filesOverlaid, pr.collisions, pr.buildOutcome,
		pr.packDuration, pr.packOutcome, pr.archiveBytes)
	return pr
}

func (p *PrometheusRecorder) ObserveOverlayDuration(pkg string, d time.Duration) {
	if p == nil || p.overlayDuration == nil {
		return
	}
	p.overlayDuration.WithLabelValues(pkg).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFilesOverlaid(kind FileKind) {
	if p == nil || p.filesOverlaid == nil {
		return
	}
	p.filesOverlaid.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncCollision(label CollisionLabel) {
	if p == nil || p.collisions == nil {
		return
	}
	p.collisions.WithLabelValues(string(label)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome OutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObservePackDuration(d time.Duration) {
	if p == nil || p.packDuration == nil {
		return
	}
	p.packDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPackOutcome(outcome OutcomeLabel) {
	if p == nil || p.packOutcome == nil {
		return
	}
	p.packOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveArchiveBytes(n int64) {
	if p == nil || p.archiveBytes == nil {
		return
	}
	p.archiveBytes.Observe(float64(n))
}
