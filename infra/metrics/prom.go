package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/storefleet/dispatch/core/metrics"
)

// PromSink records dispatch events in Prometheus metrics.
type PromSink struct {
	assignments *prometheus.CounterVec
	distance    prometheus.Histogram
	backlog     prometheus.Gauge
	fleet       prometheus.Gauge
	deliveries  prometheus.Counter
}

// NewPromSink registers dispatch metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_orders_scheduled_total",
		Help: "Total number of orders assigned to vehicles",
	}, []string{"vehicle_vin", "frozen"})
	distance := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_total_distance",
		Help:    "Total travel distance of scheduled deliveries",
		Buckets: prometheus.LinearBuckets(0, 4, 11),
	})
	backlog := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_orders_unscheduled",
		Help: "Number of orders waiting to be scheduled",
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_registered_vehicles",
		Help: "Number of vehicles registered with the dispatcher",
	})
	deliveries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_orders_delivered_total",
		Help: "Total number of orders reported delivered",
	})

	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(distance); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			distance = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(backlog); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			backlog = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(deliveries); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			deliveries = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		assignments: assignments,
		distance:    distance,
		backlog:     backlog,
		fleet:       fleet,
		deliveries:  deliveries,
	}, nil
}

// RecordAssignments increments the counter and observes the distance for each
// assignment.
func (s *PromSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		s.assignments.WithLabelValues(r.VehicleVIN, strconv.FormatBool(r.Frozen)).Inc()
		s.distance.Observe(float64(r.Distance))
	}
	return nil
}

// RecordBacklog sets the unscheduled-orders gauge.
func (s *PromSink) RecordBacklog(size int) error {
	s.backlog.Set(float64(size))
	return nil
}

// RecordFleetSize sets the registered-vehicles gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}

// RecordDelivery increments the delivered-orders counter.
func (s *PromSink) RecordDelivery(string, time.Time) error {
	s.deliveries.Inc()
	return nil
}
