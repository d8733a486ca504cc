package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metrics *Metrics
)

func SetGlobal(m *Metrics) {
	metrics = m
}

type Gauge interface {
	Inc()
	Dec()
	Add(float64)
	Set(float64)
}

type Counter interface {
	Inc()
	Add(float64)
}

type Observer interface {
	Observe(float64)
}

type Metrics struct {
	host           string
	connects       *prometheus.CounterVec
	connectErrors  *prometheus.CounterVec
	connectSeconds *prometheus.HistogramVec
	transports     *prometheus.GaugeVec
	streams        *prometheus.CounterVec
	inputBytes     *prometheus.CounterVec
	outputBytes    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	host, _ := os.Hostname()
	m := &Metrics{
		host: host,
		connects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trunk_connects_total",
				Help: "Total number of connect attempts",
			},
			[]string{"host"}),

		connectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trunk_connect_errors_total",
				Help: "Total number of failed connect attempts by stage",
			},
			[]string{"host", "stage"}),

		connectSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "trunk_connect_duration_seconds",
				Help: "Distribution of connect attempt latencies",
				Buckets: []float64{
					.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30, 60,
				},
			},
			[]string{"host"}),

		transports: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trunk_transports",
				Help: "Current number of open transports",
			},
			[]string{"host"}),

		streams: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trunk_streams_total",
				Help: "Total number of streams opened over transports",
			},
			[]string{"host"}),

		inputBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trunk_input_bytes_total",
				Help: "Total bytes read from forwarded connections",
			},
			[]string{"host", "forwarder"}),

		outputBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trunk_output_bytes_total",
				Help: "Total bytes written to forwarded connections",
			},
			[]string{"host", "forwarder"}),
	}
	prometheus.MustRegister(m.connects)
	prometheus.MustRegister(m.connectErrors)
	prometheus.MustRegister(m.connectSeconds)
	prometheus.MustRegister(m.transports)
	prometheus.MustRegister(m.streams)
	prometheus.MustRegister(m.inputBytes)
	prometheus.MustRegister(m.outputBytes)
	return m
}

func Connects() Counter {
	if metrics == nil || metrics.connects == nil {
		return nilCounter
	}
	return metrics.connects.
		With(prometheus.Labels{
			"host": metrics.host,
		})
}

func ConnectErrors(stage string) Counter {
	if metrics == nil || metrics.connectErrors == nil {
		return nilCounter
	}
	return metrics.connectErrors.
		With(prometheus.Labels{
			"host":  metrics.host,
			"stage": stage,
		})
}

func ConnectSeconds() Observer {
	if metrics == nil || metrics.connectSeconds == nil {
		return nilObserver
	}
	return metrics.connectSeconds.
		With(prometheus.Labels{
			"host": metrics.host,
		})
}

func Transports() Gauge {
	if metrics == nil || metrics.transports == nil {
		return nilGauge
	}
	return metrics.transports.
		With(prometheus.Labels{
			"host": metrics.host,
		})
}

func Streams() Counter {
	if metrics == nil || metrics.streams == nil {
		return nilCounter
	}
	return metrics.streams.
		With(prometheus.Labels{
			"host": metrics.host,
		})
}

func InputBytes(forwarder string) Counter {
	if metrics == nil || metrics.inputBytes == nil {
		return nilCounter
	}
	return metrics.inputBytes.
		With(prometheus.Labels{
			"host":      metrics.host,
			"forwarder": forwarder,
		})
}

func OutputBytes(forwarder string) Counter {
	if metrics == nil || metrics.outputBytes == nil {
		return nilCounter
	}
	return metrics.outputBytes.
		With(prometheus.Labels{
			"host":      metrics.host,
			"forwarder": forwarder,
		})
}

var (
	nilGauge    = &nopGauge{}
	nilCounter  = &nopCounter{}
	nilObserver = &nopObserver{}
)

type nopGauge struct{}

func (*nopGauge) Inc()          {}
func (*nopGauge) Dec()          {}
func (*nopGauge) Add(v float64) {}
func (*nopGauge) Set(v float64) {}

type nopCounter struct{}

func (*nopCounter) Inc()          {}
func (*nopCounter) Add(v float64) {}

type nopObserver struct{}

func (*nopObserver) Observe(v float64) {}
