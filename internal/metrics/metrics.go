package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the study counters
type Metrics struct {
	Batches           *prometheus.CounterVec
	BatchWords        *prometheus.CounterVec
	IntegrityWarnings prometheus.Counter
	Answers           *prometheus.CounterVec
	Mastered          prometheus.Counter
	UpdateConflicts   prometheus.Counter
	RemindersSent     *prometheus.CounterVec
	DecayedStrength   prometheus.Histogram
}

// New registers the counters with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Batches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "srs_batches_total",
				Help: "Total number of study batches built",
			},
			[]string{"level"},
		),
		BatchWords: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "srs_batch_words_total",
				Help: "Total number of words handed out in batches",
			},
			[]string{"kind"},
		),
		IntegrityWarnings: f.NewCounter(
			prometheus.CounterOpts{
				Name: "srs_integrity_warnings_total",
				Help: "Progress records referencing items missing from the catalog",
			},
		),
		Answers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "srs_answers_total",
				Help: "Total number of answers recorded",
			},
			[]string{"result"},
		),
		Mastered: f.NewCounter(
			prometheus.CounterOpts{
				Name: "srs_mastered_total",
				Help: "Number of answers that moved an item to MASTERED",
			},
		),
		UpdateConflicts: f.NewCounter(
			prometheus.CounterOpts{
				Name: "srs_update_conflicts_total",
				Help: "Progress writes retried after a concurrent update",
			},
		),
		RemindersSent: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "srs_reminders_total",
				Help: "Review reminders by outcome",
			},
			[]string{"outcome"},
		),
		DecayedStrength: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "srs_review_strength",
				Help:    "Real-time memory strength of words handed out for review",
				Buckets: prometheus.LinearBuckets(20, 20, 4),
			},
		),
	}
}
