// Package metrics exports Prometheus metrics for list endpoints.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Alp4ka/listpager"
)

// Metrics holds the list collectors registered on one registry.
type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Labels: entity, mode (offset, keyset, none), status (HTTP status code).
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpager_requests_total",
				Help: "Total number of list requests",
			},
			[]string{"entity", "mode", "status"},
		),
		// Labels: entity, kind (cursor, field, relation, filter, parameter, storage, internal).
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listpager_errors_total",
				Help: "Total number of failed list requests by error kind",
			},
			[]string{"entity", "kind"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listpager_duration_seconds",
				Help:    "List request duration distribution",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
			},
			[]string{"entity", "mode"},
		),
		items: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listpager_page_items",
				Help:    "Number of rows returned per page",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"entity", "mode"},
		),
	}
}

// Observer returns a listpager.Observer labelling samples with entity.
func (m *Metrics) Observer(entity string) listpager.Observer {
	return &entityObserver{metrics: m, entity: entity}
}

type entityObserver struct {
	metrics *Metrics
	entity  string
}

func (o *entityObserver) ObserveList(mode listpager.Mode, items int, elapsed time.Duration, err error) {
	modeLabel := string(mode)
	if modeLabel == "" {
		modeLabel = "none"
	}

	o.metrics.requests.WithLabelValues(o.entity, modeLabel, strconv.Itoa(listpager.StatusCode(err))).Inc()
	o.metrics.duration.WithLabelValues(o.entity, modeLabel).Observe(elapsed.Seconds())

	if err != nil {
		o.metrics.errors.WithLabelValues(o.entity, listpager.ErrorKind(err)).Inc()
		return
	}

	o.metrics.items.WithLabelValues(o.entity, modeLabel).Observe(float64(items))
}
