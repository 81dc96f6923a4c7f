// Package metrics exposes the decode loop's running Stats as
// Prometheus gauges/counters over the CLI's monitor port, the same
// port the receiver console's moniport flag already reserves for a
// status view.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the decoder's exported metrics.
type Registry struct {
	reg *prometheus.Registry

	FramesDecoded *prometheus.CounterVec
	CorruptFrames prometheus.Counter
	Progress      prometheus.Gauge
}

// NewRegistry builds a fresh, unregistered-with-the-default-registry
// metrics set so multiple decode runs in one process don't collide.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		FramesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blackbox_frames_decoded_total",
			Help: "Frames successfully decoded, by frame kind.",
		}, []string{"kind"}),
		CorruptFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blackbox_corrupt_frames_total",
			Help: "Frame attempts abandoned due to corruption and resynced past.",
		}),
		Progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blackbox_decode_progress_ratio",
			Help: "Fraction of the data section consumed so far, in [0,1].",
		}),
	}

	reg.MustRegister(r.FramesDecoded, r.CorruptFrames, r.Progress)
	return r
}

// Handler returns the HTTP handler serving this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve starts an HTTP listener on addr exposing /metrics. It blocks;
// callers run it in its own goroutine, same as the receiver console
// runs its monitor listener alongside the main server loop.
func (r *Registry) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	return http.ListenAndServe(addr, mux)
}
