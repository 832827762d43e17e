package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefleet/dispatch/core/dispatch/journal"
	"github.com/storefleet/dispatch/core/events"
	"github.com/storefleet/dispatch/core/metrics"
	"github.com/storefleet/dispatch/core/model"
)

// TotalDistance returns the customer-to-store plus vehicle-to-store distance
// for the given store. It is the rough approximation of how far the vehicle
// has to travel for the delivery. A missing table entry on either side yields
// a DistanceLookupError.
func TotalDistance(store model.Store, customer model.Customer, vehicle model.Vehicle) (int, error) {
	cd, ok := customer.DistanceFromEachStore().To(store.ID)
	if !ok {
		return 0, &DistanceLookupError{Party: "customer", ID: customer.ID(), StoreID: store.ID}
	}
	vd, ok := vehicle.DistanceFromEachStore().To(store.ID)
	if !ok {
		return 0, &DistanceLookupError{Party: "vehicle", ID: vehicle.VIN(), StoreID: store.ID}
	}
	return cd + vd, nil
}

// RandomDistanceAssignments draws an independent uniformly random distance in
// [0, MaxStoreDistance) for every currently registered store and returns the
// resulting table. Every call produces a fresh table, including repeated
// registrations of the same vehicle.
func (d *StoreDispatcher) RandomDistanceAssignments() model.DistanceTable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.randomDistanceAssignments()
}

func (d *StoreDispatcher) randomDistanceAssignments() model.DistanceTable {
	t := make(model.DistanceTable, len(d.stores))
	for _, s := range d.stores {
		t[s.ID] = d.rng.Intn(d.cfg.MaxStoreDistance)
	}
	return t
}

// DispatchVehicles assigns every unscheduled order to the available vehicle
// with the smallest total travel distance, moving assigned orders to the
// in-transit list and notifying their customers. After each assignment the
// scan restarts from the top of the unscheduled list.
//
// The loop stops with ErrNoEligibleVehicle when a full pass produces no
// assignment (no vehicle available, or all disqualified by the frozen-goods
// constraint). Every other pass shrinks the unscheduled list by one, so the
// loop terminates after at most one pass per order: the mutex is held for
// the whole run and a pass that stalls once cannot succeed later.
func (d *StoreDispatcher) DispatchVehicles(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for len(d.notScheduled) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Drop orders that were force-submitted while already in transit.
		d.reconcile()

		assigned := false
		var lookupErr error
		for _, order := range d.notScheduled {
			vehicle, distance, err := d.selectVehicle(order)
			if err != nil {
				// Missing customer entry: abort this order's attempt for the
				// pass, keep scanning the remaining orders.
				d.log.Warnf("order %s skipped: %v", order.Number(), err)
				lookupErr = err
				continue
			}
			if vehicle == nil {
				continue
			}
			if err := d.assign(ctx, order, vehicle, distance); err != nil {
				d.log.Warnf("vehicle %s rejected order %s: %v", vehicle.VIN(), order.Number(), err)
				continue
			}
			assigned = true
			break
		}

		if !assigned && len(d.notScheduled) > 0 {
			err := fmt.Errorf("%w: %d orders cannot be scheduled", ErrNoEligibleVehicle, len(d.notScheduled))
			if lookupErr != nil {
				err = errors.Join(err, lookupErr)
			}
			return err
		}
	}
	return nil
}

// reconcile removes unscheduled orders that are already in transit.
func (d *StoreDispatcher) reconcile() {
	if len(d.inTransit) == 0 {
		return
	}
	kept := d.notScheduled[:0]
	for _, o := range d.notScheduled {
		if !containsOrder(d.inTransit, o.Number()) {
			kept = append(kept, o)
		}
	}
	d.notScheduled = kept
}

// selectVehicle scans the fleet in registration order and returns the
// available vehicle with the smallest total distance for the order. The first
// vehicle reaching the minimum wins ties. A nil vehicle means no vehicle
// qualified this pass.
func (d *StoreDispatcher) selectVehicle(order *model.Order) (model.Vehicle, int, error) {
	var (
		best     model.Vehicle
		bestDist int
	)
	for _, v := range d.vehicles {
		if !v.Available() {
			continue
		}
		total, err := TotalDistance(order.Store(), order.Customer(), v)
		if err != nil {
			var lerr *DistanceLookupError
			if errors.As(err, &lerr) && lerr.Party == "vehicle" {
				// Only this vehicle is disqualified.
				d.log.Debugf("%v", err)
				continue
			}
			return nil, 0, err
		}
		if order.KeepFrozen() && (total > d.cfg.FrozenDistanceLimit || d.increasedTraffic) && !v.CanTransportFrozen() {
			continue
		}
		if best == nil || total < bestDist {
			best = v
			bestDist = total
		}
	}
	return best, bestDist, nil
}

// assign hands the order to the vehicle and moves it to the in-transit list.
func (d *StoreDispatcher) assign(ctx context.Context, order *model.Order, vehicle model.Vehicle, distance int) error {
	if err := vehicle.DeliverOrder(order, distance); err != nil {
		return err
	}

	for i, o := range d.notScheduled {
		if o.Number() == order.Number() {
			d.notScheduled = append(d.notScheduled[:i], d.notScheduled[i+1:]...)
			break
		}
	}
	d.inTransit = append(d.inTransit, order)

	order.Customer().ReceiveMessage(fmt.Sprintf(
		"Dear customer, order %s has been scheduled for delivery. Thank you for doing business with us!",
		order.Number()))

	if order.KeepFrozen() {
		d.log.Infof("frozen order %s assigned to vehicle %s", order.Number(), vehicle.VIN())
	}
	d.log.Debugw("order scheduled", map[string]any{
		"order":    order.Number(),
		"vehicle":  vehicle.VIN(),
		"store":    order.Store().ID,
		"distance": distance,
		"frozen":   order.KeepFrozen(),
	})

	now := time.Now()
	rec := metrics.AssignmentRecord{
		OrderNumber:      order.Number(),
		VehicleVIN:       vehicle.VIN(),
		StoreID:          order.Store().ID,
		CustomerID:       order.Customer().ID(),
		Distance:         distance,
		Frozen:           order.KeepFrozen(),
		IncreasedTraffic: d.increasedTraffic,
		Time:             now,
	}
	if err := d.metrics.RecordAssignments([]metrics.AssignmentRecord{rec}); err != nil {
		d.log.Errorf("assignment metric: %v", err)
	}
	d.recordBacklog()

	if d.bus != nil {
		d.bus.Publish(events.OrderScheduledEvent{
			OrderNumber:      rec.OrderNumber,
			VehicleVIN:       rec.VehicleVIN,
			StoreID:          rec.StoreID,
			CustomerID:       rec.CustomerID,
			Distance:         rec.Distance,
			Frozen:           rec.Frozen,
			IncreasedTraffic: rec.IncreasedTraffic,
			Time:             now,
		})
	}
	if d.journal != nil {
		jrec := journal.Record{
			Timestamp:        now,
			OrderNumber:      rec.OrderNumber,
			VehicleVIN:       rec.VehicleVIN,
			StoreID:          rec.StoreID,
			CustomerID:       rec.CustomerID,
			Distance:         rec.Distance,
			Frozen:           rec.Frozen,
			IncreasedTraffic: rec.IncreasedTraffic,
		}
		if err := d.journal.Append(ctx, jrec); err != nil {
			d.log.Errorf("journal append: %v", err)
		}
	}
	return nil
}
