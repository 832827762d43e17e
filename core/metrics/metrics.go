package metrics

import "time"

// AssignmentRecord represents one order-to-vehicle assignment to be recorded.
type AssignmentRecord struct {
	OrderNumber      string
	VehicleVIN       string
	StoreID          string
	CustomerID       string
	Distance         int
	Frozen           bool
	IncreasedTraffic bool
	Time             time.Time
}

// MetricsSink records assignment decisions for observability purposes.
type MetricsSink interface {
	RecordAssignments(records []AssignmentRecord) error
}

// BacklogRecorder is implemented by sinks able to track the number of orders
// still waiting to be scheduled.
type BacklogRecorder interface {
	RecordBacklog(size int) error
}

// DeliveryRecorder records completed deliveries.
type DeliveryRecorder interface {
	RecordDelivery(orderNumber string, t time.Time) error
}

// FleetSizeRecorder records the number of registered vehicles.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }
func (NopSink) RecordBacklog(int) error                    { return nil }
func (NopSink) RecordDelivery(string, time.Time) error     { return nil }
func (NopSink) RecordFleetSize(int) error                  { return nil }
