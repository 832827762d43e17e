package simulator

import (
	"fmt"
	"sync"
	"time"

	"github.com/storefleet/dispatch/core/logger"
	"github.com/storefleet/dispatch/core/model"
)

// Delivery records one order accepted by a van.
type Delivery struct {
	OrderNumber string
	Distance    int
	AcceptedAt  time.Time
}

// Van is a delivery vehicle. It satisfies the dispatcher's vehicle contract;
// the freezer capability is fixed at construction while availability can be
// toggled at any time.
type Van struct {
	mu        sync.Mutex
	vin       string
	available bool
	freezer   bool
	distances model.DistanceTable
	log       logger.Logger
	accepted  []Delivery
}

// NewVan creates an available van. A nil logger disables logging.
func NewVan(vin string, freezer bool, log logger.Logger) *Van {
	if log == nil {
		log = logger.Nop{}
	}
	return &Van{vin: vin, available: true, freezer: freezer, log: log}
}

func (v *Van) VIN() string { return v.vin }

func (v *Van) Available() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.available
}

// SetAvailable toggles whether the van takes new deliveries.
func (v *Van) SetAvailable(available bool) {
	v.mu.Lock()
	v.available = available
	v.mu.Unlock()
	v.log.Debugf("van %s availability set to %t", v.vin, available)
}

func (v *Van) CanTransportFrozen() bool { return v.freezer }

func (v *Van) DistanceFromEachStore() model.DistanceTable {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.distances
}

// AdoptDistances installs the distance table returned by vehicle registration.
func (v *Van) AdoptDistances(t model.DistanceTable) {
	v.mu.Lock()
	v.distances = t.Clone()
	v.mu.Unlock()
}

// DeliverOrder accepts the order assignment. Frozen orders are refused when
// the van has no freezer; the dispatcher is expected to have filtered those,
// so a refusal indicates a constraint violation upstream.
func (v *Van) DeliverOrder(order *model.Order, distance int) error {
	if order.KeepFrozen() && !v.freezer {
		return fmt.Errorf("van %s cannot transport frozen goods", v.vin)
	}
	v.mu.Lock()
	v.accepted = append(v.accepted, Delivery{
		OrderNumber: order.Number(),
		Distance:    distance,
		AcceptedAt:  time.Now(),
	})
	v.mu.Unlock()
	v.log.Infof("van %s accepted order %s at distance %d", v.vin, order.Number(), distance)
	return nil
}

// Deliveries returns a copy of the accepted deliveries.
func (v *Van) Deliveries() []Delivery {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Delivery(nil), v.accepted...)
}
