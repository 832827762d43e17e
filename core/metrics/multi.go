package metrics

import "time"

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAssignments forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordAssignments(recs []AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordBacklog forwards the backlog size to sinks that support it.
func (m *MultiSink) RecordBacklog(size int) error {
	for _, s := range m.Sinks {
		if br, ok := s.(BacklogRecorder); ok {
			if err := br.RecordBacklog(size); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordDelivery forwards completed deliveries to sinks that support it.
func (m *MultiSink) RecordDelivery(orderNumber string, t time.Time) error {
	for _, s := range m.Sinks {
		if dr, ok := s.(DeliveryRecorder); ok {
			if err := dr.RecordDelivery(orderNumber, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards the fleet size to sinks that support it.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(FleetSizeRecorder); ok {
			if err := fr.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
