package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/storefleet/dispatch/core/metrics"
)

func TestPromSink_RecordAssignments(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	rec := coremetrics.AssignmentRecord{
		OrderNumber: "o1",
		VehicleVIN:  "van1",
		StoreID:     "st1",
		CustomerID:  "c1",
		Distance:    8,
		Frozen:      true,
		Time:        time.Now(),
	}
	if err := sink.RecordAssignments([]coremetrics.AssignmentRecord{rec}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP dispatch_orders_scheduled_total Total number of orders assigned to vehicles
# TYPE dispatch_orders_scheduled_total counter
dispatch_orders_scheduled_total{frozen="true",vehicle_vin="van1"} 1
`
	if err := testutil.CollectAndCompare(sink.assignments, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(sink.distance); c == 0 {
		t.Errorf("distance not observed")
	}
}

func TestPromSink_Gauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordBacklog(7); err != nil {
		t.Fatalf("backlog error: %v", err)
	}
	if got := testutil.ToFloat64(sink.backlog); got != 7 {
		t.Errorf("backlog gauge = %v", got)
	}
	if err := sink.RecordFleetSize(3); err != nil {
		t.Fatalf("fleet size error: %v", err)
	}
	if got := testutil.ToFloat64(sink.fleet); got != 3 {
		t.Errorf("fleet gauge = %v", got)
	}
	if err := sink.RecordDelivery("o1", time.Now()); err != nil {
		t.Fatalf("delivery error: %v", err)
	}
	if got := testutil.ToFloat64(sink.deliveries); got != 1 {
		t.Errorf("delivery counter = %v", got)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}
