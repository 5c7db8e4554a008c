// Package metrics exposes consolidation run results as Prometheus gauges
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/travigo/stopservices/pkg/consolidator"
)

type Metrics struct {
	Registry *prometheus.Registry

	Archives  *prometheus.GaugeVec
	Documents *prometheus.GaugeVec
	Services  *prometheus.GaugeVec

	Stops        prometheus.Gauge
	Associations prometheus.Gauge

	RunDuration    prometheus.Gauge
	LastCompletion prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,

		Archives: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "travigo_stopservices_archives",
				Help: "Archives handled by the last run",
			},
			[]string{"status"},
		),
		Documents: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "travigo_stopservices_documents",
				Help: "Documents and entries handled by the last run",
			},
			[]string{"status"},
		),
		Services: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "travigo_stopservices_services",
				Help: "Service facts seen by the last run",
			},
			[]string{"status"},
		),
		Stops: factory.NewGauge(prometheus.GaugeOpts{
			Name: "travigo_stopservices_stops",
			Help: "Stops in the last published index",
		}),
		Associations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "travigo_stopservices_associations",
			Help: "Stop to service associations in the last published index",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "travigo_stopservices_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastCompletion: factory.NewGauge(prometheus.GaugeOpts{
			Name: "travigo_stopservices_last_completion_timestamp_seconds",
			Help: "Unix time the last run completed",
		}),
	}
}

func (m *Metrics) Record(stats consolidator.Stats, duration time.Duration) {
	m.Archives.WithLabelValues("processed").Set(float64(stats.ArchivesProcessed))
	m.Archives.WithLabelValues("failed").Set(float64(stats.ArchivesFailed))

	m.Documents.WithLabelValues("processed").Set(float64(stats.DocumentsProcessed))
	m.Documents.WithLabelValues("failed").Set(float64(stats.DocumentsFailed))
	m.Documents.WithLabelValues("entryfailed").Set(float64(stats.EntriesFailed))

	m.Services.WithLabelValues("seen").Set(float64(stats.ServicesSeen))
	m.Services.WithLabelValues("retained").Set(float64(stats.ServicesRetained))
	m.Services.WithLabelValues("rejectedvalidity").Set(float64(stats.RejectedValidity))
	m.Services.WithLabelValues("rejectedversion").Set(float64(stats.RejectedVersion))

	m.Stops.Set(float64(stats.Stops))
	m.Associations.Set(float64(stats.Associations))

	m.RunDuration.Set(duration.Seconds())
	m.LastCompletion.SetToCurrentTime()
}

// WriteTextfile writes the registry in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
