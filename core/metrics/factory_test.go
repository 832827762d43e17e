package metrics

import (
	"testing"

	"github.com/storefleet/dispatch/core/factory"
)

func TestNewMetricsSink_EmptyConfig(t *testing.T) {
	sink, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sink.(NopSink); !ok {
		t.Errorf("expected NopSink, got %T", sink)
	}
}

func TestNewMetricsSink_UnknownType(t *testing.T) {
	_, err := NewMetricsSink([]factory.ModuleConfig{{Type: "bogus"}})
	if err == nil {
		t.Fatalf("expected error for unknown sink type")
	}
}

func TestNewMetricsSink_Multi(t *testing.T) {
	if err := RegisterMetricsSink("fake", func(conf map[string]any) (MetricsSink, error) {
		return &recordSink{}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	sink, err := NewMetricsSink([]factory.ModuleConfig{{Type: "fake"}, {Type: "fake"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	multi, ok := sink.(*MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", sink)
	}
	if len(multi.Sinks) != 2 {
		t.Errorf("expected 2 sinks, got %d", len(multi.Sinks))
	}
}
