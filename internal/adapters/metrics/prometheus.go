// Package metrics records persistence and draw outcomes as Prometheus
// metrics.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/practicepicker/internal/domain"
	"github.com/bft-labs/practicepicker/internal/ports"
)

const namespace = "practicepicker"

// Recorder holds the collectors. It implements ports.DrawObserver and wraps
// repositories with Instrument.
type Recorder struct {
	loads        *prometheus.CounterVec
	saves        *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec
	draws        *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Snapshot loads by backend and outcome.",
		}, []string{"backend", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_saves_total",
			Help:      "Snapshot saves by backend and result.",
		}, []string{"backend", "result"}),
		saveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_save_duration_seconds",
			Help:      "Time spent writing a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend"}),
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draws_total",
			Help:      "Random draws by filter scope and result.",
		}, []string{"scope", "result"}),
	}
	reg.MustRegister(r.loads, r.saves, r.saveDuration, r.draws)
	return r
}

// ObserveDraw counts a draw. The category itself is not a label; only
// whether the filter was the all-categories sentinel.
func (r *Recorder) ObserveDraw(category string, found bool) {
	scope := "category"
	if category == domain.AllCategories {
		scope = "all"
	}
	result := "miss"
	if found {
		result = "hit"
	}
	r.draws.WithLabelValues(scope, result).Inc()
}

// Instrument wraps repo so that every load and save is counted.
func (r *Recorder) Instrument(repo ports.SnapshotRepository) ports.SnapshotRepository {
	return &instrumented{next: repo, rec: r}
}

type instrumented struct {
	next ports.SnapshotRepository
	rec  *Recorder
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Load(ctx context.Context) ports.LoadResult {
	res := i.next.Load(ctx)
	i.rec.loads.WithLabelValues(i.next.Name(), res.Outcome.String()).Inc()
	return res
}

func (i *instrumented) Save(ctx context.Context, s domain.Snapshot) error {
	start := time.Now()
	err := i.next.Save(ctx, s)
	i.rec.saveDuration.WithLabelValues(i.next.Name()).Observe(time.Since(start).Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	i.rec.saves.WithLabelValues(i.next.Name(), result).Inc()
	return err
}
