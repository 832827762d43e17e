package metrics

import (
	"context"

	"github.com/storefleet/dispatch/core/events"
	coremetrics "github.com/storefleet/dispatch/core/metrics"
	"github.com/storefleet/dispatch/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// delivery events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if e, ok := ev.(events.OrderDeliveredEvent); ok {
					if r, ok := sink.(coremetrics.DeliveryRecorder); ok {
						_ = r.RecordDelivery(e.OrderNumber, e.Time)
					}
				}
			}
		}
	}()
}
