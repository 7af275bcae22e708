// Package metrics provides Prometheus metrics for a scan.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the metrics of one run in its own registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	filesHashed  prometheus.Counter
	bytesHashed  prometheus.Counter
	fileErrors   prometheus.Counter
	dirErrors    *prometheus.CounterVec
	inFlight     prometheus.Gauge
	hashDuration prometheus.Histogram
}

// New creates a recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		filesHashed: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlsdigest_files_hashed_total",
			Help: "Total number of files hashed",
		}),
		bytesHashed: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlsdigest_bytes_hashed_total",
			Help: "Total bytes of file content hashed",
		}),
		fileErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlsdigest_file_errors_total",
			Help: "Total number of files that could not be read",
		}),
		dirErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xlsdigest_directory_errors_total",
				Help: "Directory listing failures by outcome",
			},
			[]string{"action"},
		),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "xlsdigest_hashes_in_flight",
			Help: "Number of files currently being hashed",
		}),
		hashDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "xlsdigest_hash_duration_seconds",
			Help:    "Time to read and hash one file",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Registry exposes the underlying registry, e.g. for a gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// HashStarted records a file entering a worker.
func (r *Recorder) HashStarted(string) {
	if r == nil {
		return
	}
	r.inFlight.Inc()
}

// HashFinished records a file leaving a worker.
func (r *Recorder) HashFinished(_ string, size int64, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.inFlight.Dec()
	r.hashDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.fileErrors.Inc()
		return
	}
	r.filesHashed.Inc()
	r.bytesHashed.Add(float64(size))
}

// DirectoryError records a directory listing failure.
func (r *Recorder) DirectoryError(_ string, suppressed bool) {
	if r == nil {
		return
	}
	action := "aborted"
	if suppressed {
		action = "skipped"
	}
	r.dirErrors.WithLabelValues(action).Inc()
}

// WriteTextfile writes the metrics in the text exposition format, for
// the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
