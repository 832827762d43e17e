package dispatch

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/storefleet/dispatch/core/dispatch/journal"
	"github.com/storefleet/dispatch/core/events"
	"github.com/storefleet/dispatch/core/logger"
	"github.com/storefleet/dispatch/core/metrics"
	"github.com/storefleet/dispatch/core/model"
	"github.com/storefleet/dispatch/internal/eventbus"
)

// StoreDispatcher coordinates stores, vehicles and orders. A running system
// holds exactly one instance, constructed explicitly and passed to its
// collaborators. All state is guarded by a single mutex: the assignment loop
// performs scan-then-mutate sequences that must not interleave.
type StoreDispatcher struct {
	mu sync.Mutex

	cfg     Config
	log     logger.Logger
	metrics metrics.MetricsSink
	bus     eventbus.EventBus
	journal journal.Store
	rng     *rand.Rand

	vehicles []model.Vehicle
	stores   []model.Store

	notScheduled []*model.Order
	inTransit    []*model.Order
	delivered    []*model.Order

	increasedTraffic bool
}

// NewStoreDispatcher creates a dispatcher. A nil sink disables metrics and a
// nil bus disables event publication; the logger is required.
func NewStoreDispatcher(cfg Config, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*StoreDispatcher, error) {
	if log == nil {
		return nil, fmt.Errorf("dispatch: nil logger provided to NewStoreDispatcher")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch config: %w", err)
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &StoreDispatcher{
		cfg:     cfg,
		log:     log,
		metrics: sink,
		bus:     bus,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetJournal configures the store used to persist assignment decisions.
func (d *StoreDispatcher) SetJournal(store journal.Store) {
	d.mu.Lock()
	d.journal = store
	d.mu.Unlock()
}

// RegisterStore adds the store unless one with the same ID is already
// registered.
func (d *StoreDispatcher) RegisterStore(s model.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.stores {
		if r.ID == s.ID {
			return
		}
	}
	d.stores = append(d.stores, s)
}

// RemoveStore removes the store. Removing an unknown store is a no-op.
func (d *StoreDispatcher) RemoveStore(s model.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.stores {
		if r.ID == s.ID {
			d.stores = append(d.stores[:i], d.stores[i+1:]...)
			return
		}
	}
}

// RegisterVehicle adds the vehicle to the fleet unless a vehicle with the
// same VIN is already registered. It always returns a fresh random distance
// assignment covering every currently registered store, which the caller is
// expected to adopt as the vehicle's distance table.
func (d *StoreDispatcher) RegisterVehicle(v model.Vehicle) model.DistanceTable {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasVehicle(v.VIN()) {
		d.vehicles = append(d.vehicles, v)
		d.recordFleetSize()
	}
	return d.randomDistanceAssignments()
}

// RemoveVehicle removes the vehicle from the fleet. Removing an unknown
// vehicle is a no-op.
func (d *StoreDispatcher) RemoveVehicle(v model.Vehicle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.vehicles {
		if r.VIN() == v.VIN() {
			d.vehicles = append(d.vehicles[:i], d.vehicles[i+1:]...)
			d.recordFleetSize()
			return
		}
	}
}

// ReceiveOrder adds the order to the unscheduled list. Orders are identified
// by their number; submitting an order already waiting is silently ignored.
func (d *StoreDispatcher) ReceiveOrder(o *model.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if containsOrder(d.notScheduled, o.Number()) {
		return
	}
	d.notScheduled = append(d.notScheduled, o)
	d.recordBacklog()
}

// ForceReceiveOrder appends the order to the unscheduled list without the
// duplicate guard. The reconcile step of the assignment loop drops entries
// that are already in transit.
func (d *StoreDispatcher) ForceReceiveOrder(o *model.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notScheduled = append(d.notScheduled, o)
	d.recordBacklog()
}

// SetIncreasedTraffic toggles the global traffic condition. Increased traffic
// tightens the frozen-goods constraint in the assignment loop.
func (d *StoreDispatcher) SetIncreasedTraffic(increased bool) {
	d.mu.Lock()
	d.increasedTraffic = increased
	d.mu.Unlock()
	if increased {
		d.log.Infof("increased traffic reported")
	} else {
		d.log.Infof("traffic levels back to normal")
	}
	if d.bus != nil {
		d.bus.Publish(events.TrafficEvent{Increased: increased, Time: time.Now()})
	}
}

// MarkDelivered moves an in-transit order to the delivery-complete list.
// Orders not in transit are ignored. This is how the delivering vehicle (or
// another collaborator) tells the dispatcher that an order is done; the
// dispatcher never decides completion itself.
func (d *StoreDispatcher) MarkDelivered(o *model.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, t := range d.inTransit {
		if t.Number() == o.Number() {
			d.inTransit = append(d.inTransit[:i], d.inTransit[i+1:]...)
			d.delivered = append(d.delivered, t)
			// Delivery metrics are bridged from the bus by the event collector.
			if d.bus != nil {
				d.bus.Publish(events.OrderDeliveredEvent{OrderNumber: t.Number(), Time: time.Now()})
			}
			return
		}
	}
}

// OrdersNotScheduled returns a copy of the unscheduled order list.
func (d *StoreDispatcher) OrdersNotScheduled() []*model.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*model.Order(nil), d.notScheduled...)
}

// OrdersInTransit returns a copy of the in-transit order list.
func (d *StoreDispatcher) OrdersInTransit() []*model.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*model.Order(nil), d.inTransit...)
}

// OrdersDeliveryComplete returns a copy of the delivered order list.
func (d *StoreDispatcher) OrdersDeliveryComplete() []*model.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*model.Order(nil), d.delivered...)
}

// RegisteredVehicles returns a copy of the fleet in registration order.
func (d *StoreDispatcher) RegisteredVehicles() []model.Vehicle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Vehicle(nil), d.vehicles...)
}

// RegisteredStores returns a copy of the registered stores.
func (d *StoreDispatcher) RegisteredStores() []model.Store {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Store(nil), d.stores...)
}

func (d *StoreDispatcher) hasVehicle(vin string) bool {
	for _, r := range d.vehicles {
		if r.VIN() == vin {
			return true
		}
	}
	return false
}

func (d *StoreDispatcher) recordFleetSize() {
	if fr, ok := d.metrics.(metrics.FleetSizeRecorder); ok {
		if err := fr.RecordFleetSize(len(d.vehicles)); err != nil {
			d.log.Errorf("fleet size metric: %v", err)
		}
	}
}

func (d *StoreDispatcher) recordBacklog() {
	if br, ok := d.metrics.(metrics.BacklogRecorder); ok {
		if err := br.RecordBacklog(len(d.notScheduled)); err != nil {
			d.log.Errorf("backlog metric: %v", err)
		}
	}
}

func containsOrder(orders []*model.Order, number string) bool {
	for _, o := range orders {
		if o.Number() == number {
			return true
		}
	}
	return false
}
