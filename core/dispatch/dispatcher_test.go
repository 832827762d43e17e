package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/storefleet/dispatch/core/logger"
	"github.com/storefleet/dispatch/core/model"
)

type stubCustomer struct {
	id        string
	distances model.DistanceTable
	messages  []string
}

func (c *stubCustomer) ID() string                                 { return c.id }
func (c *stubCustomer) DistanceFromEachStore() model.DistanceTable { return c.distances }
func (c *stubCustomer) ReceiveMessage(text string)                 { c.messages = append(c.messages, text) }

type stubVehicle struct {
	vin        string
	available  bool
	freezer    bool
	distances  model.DistanceTable
	accepted   []string
	deliverErr error
}

func (v *stubVehicle) VIN() string                                { return v.vin }
func (v *stubVehicle) Available() bool                            { return v.available }
func (v *stubVehicle) CanTransportFrozen() bool                   { return v.freezer }
func (v *stubVehicle) DistanceFromEachStore() model.DistanceTable { return v.distances }
func (v *stubVehicle) DeliverOrder(o *model.Order, _ int) error {
	if v.deliverErr != nil {
		return v.deliverErr
	}
	v.accepted = append(v.accepted, o.Number())
	return nil
}

func newTestDispatcher(t *testing.T) *StoreDispatcher {
	t.Helper()
	d, err := NewStoreDispatcher(Config{}, nil, nil, logger.Nop{})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func TestDispatchVehicles_PicksSmallestTotalDistance(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	near := &stubVehicle{vin: "near", available: true, distances: model.DistanceTable{"st1": 3}}
	far := &stubVehicle{vin: "far", available: true, distances: model.DistanceTable{"st1": 7}}
	d.RegisterVehicle(near)
	d.RegisterVehicle(far)

	order := model.NewOrder("o1", nil, cust, store, false)
	d.ReceiveOrder(order)

	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(near.accepted) != 1 || near.accepted[0] != "o1" {
		t.Errorf("expected near vehicle to win, got near=%v far=%v", near.accepted, far.accepted)
	}
	if got := len(d.OrdersInTransit()); got != 1 {
		t.Errorf("expected 1 order in transit, got %d", got)
	}
	if got := len(d.OrdersNotScheduled()); got != 0 {
		t.Errorf("expected empty backlog, got %d", got)
	}
	if len(cust.messages) != 1 {
		t.Errorf("expected customer notification, got %v", cust.messages)
	}
}

func TestDispatchVehicles_FrozenOverride(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	near := &stubVehicle{vin: "near", available: true, distances: model.DistanceTable{"st1": 3}}
	frozenCapable := &stubVehicle{vin: "freezer", available: true, freezer: true, distances: model.DistanceTable{"st1": 7}}
	d.RegisterVehicle(near)
	d.RegisterVehicle(frozenCapable)

	// Total distance 8 for the near vehicle exceeds the frozen limit of 2, so
	// the freezer-less vehicle must be skipped despite being closer.
	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, true))
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(frozenCapable.accepted) != 1 {
		t.Errorf("expected freezer vehicle to take the order, got near=%v freezer=%v",
			near.accepted, frozenCapable.accepted)
	}
}

func TestDispatchVehicles_TrafficForcesFreezerCheck(t *testing.T) {
	d, err := NewStoreDispatcher(Config{FrozenDistanceLimit: 10}, nil, nil, logger.Nop{})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 1}}
	plain := &stubVehicle{vin: "plain", available: true, distances: model.DistanceTable{"st1": 1}}
	frozenCapable := &stubVehicle{vin: "freezer", available: true, freezer: true, distances: model.DistanceTable{"st1": 4}}
	d.RegisterVehicle(plain)
	d.RegisterVehicle(frozenCapable)

	// Total distance 2 is within the limit, but increased traffic still
	// requires the freezer.
	d.SetIncreasedTraffic(true)
	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, true))
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(plain.accepted) != 0 || len(frozenCapable.accepted) != 1 {
		t.Errorf("expected freezer vehicle under traffic, got plain=%v freezer=%v",
			plain.accepted, frozenCapable.accepted)
	}
}

func TestDispatchVehicles_DrainsLargeOrderBook(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 2}}
	v := &stubVehicle{vin: "v1", available: true, distances: model.DistanceTable{"st1": 1}}
	d.RegisterVehicle(v)

	// One eligible vehicle must drain a backlog of any size, one pass per
	// order; a large book is progress, not a failure.
	const orders = 40
	for i := 0; i < orders; i++ {
		d.ReceiveOrder(model.NewOrder(fmt.Sprintf("o%03d", i), nil, cust, store, false))
	}
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := len(d.OrdersInTransit()); got != orders {
		t.Errorf("expected %d orders in transit, got %d", orders, got)
	}
	if got := len(d.OrdersNotScheduled()); got != 0 {
		t.Errorf("expected empty backlog, got %d", got)
	}
	if len(v.accepted) != orders {
		t.Errorf("vehicle accepted %d orders", len(v.accepted))
	}
}

func TestDispatchVehicles_FirstMinimumWinsTies(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	first := &stubVehicle{vin: "first", available: true, distances: model.DistanceTable{"st1": 3}}
	second := &stubVehicle{vin: "second", available: true, distances: model.DistanceTable{"st1": 3}}
	d.RegisterVehicle(first)
	d.RegisterVehicle(second)

	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, false))
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(first.accepted) != 1 || len(second.accepted) != 0 {
		t.Errorf("tie should go to the first registered vehicle, got first=%v second=%v",
			first.accepted, second.accepted)
	}
}

func TestDispatchVehicles_NoEligibleVehicle(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	busy := &stubVehicle{vin: "busy", available: false, distances: model.DistanceTable{"st1": 3}}
	d.RegisterVehicle(busy)

	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, false))
	err := d.DispatchVehicles(context.Background())
	if !errors.Is(err, ErrNoEligibleVehicle) {
		t.Fatalf("expected ErrNoEligibleVehicle, got %v", err)
	}
	if got := len(d.OrdersNotScheduled()); got != 1 {
		t.Errorf("order should remain unscheduled, got backlog %d", got)
	}
}

func TestDispatchVehicles_MissingCustomerDistance(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{}}
	v := &stubVehicle{vin: "v1", available: true, distances: model.DistanceTable{"st1": 3}}
	d.RegisterVehicle(v)

	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, false))
	err := d.DispatchVehicles(context.Background())
	if !errors.Is(err, ErrNoEligibleVehicle) {
		t.Fatalf("expected ErrNoEligibleVehicle, got %v", err)
	}
	var lerr *DistanceLookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected a DistanceLookupError in the chain, got %v", err)
	}
	if lerr.Party != "customer" {
		t.Errorf("expected customer lookup failure, got %s", lerr.Party)
	}
}

func TestDispatchVehicles_MissingVehicleDistanceSkipsVehicle(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)

	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	blind := &stubVehicle{vin: "blind", available: true, distances: model.DistanceTable{}}
	sighted := &stubVehicle{vin: "sighted", available: true, distances: model.DistanceTable{"st1": 4}}
	d.RegisterVehicle(blind)
	d.RegisterVehicle(sighted)

	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, false))
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(sighted.accepted) != 1 {
		t.Errorf("vehicle with a distance entry should win, got blind=%v sighted=%v",
			blind.accepted, sighted.accepted)
	}
}

func TestRegisterVehicle_ReturnsTableForAllStores(t *testing.T) {
	d, err := NewStoreDispatcher(Config{MaxStoreDistance: 20}, nil, nil, logger.Nop{})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	stores := []model.Store{{ID: "st1"}, {ID: "st2"}, {ID: "st3"}}
	for _, s := range stores {
		d.RegisterStore(s)
	}
	v := &stubVehicle{vin: "v1", available: true}
	table := d.RegisterVehicle(v)
	if len(table) != len(stores) {
		t.Fatalf("expected %d entries, got %d", len(stores), len(table))
	}
	for _, s := range stores {
		dist, ok := table.To(s.ID)
		if !ok {
			t.Errorf("missing entry for %s", s.ID)
			continue
		}
		if dist < 0 || dist >= 20 {
			t.Errorf("distance for %s out of range: %d", s.ID, dist)
		}
	}
}

func TestRegistrationIdempotence(t *testing.T) {
	d := newTestDispatcher(t)
	s := model.Store{ID: "st1"}
	d.RegisterStore(s)
	d.RegisterStore(s)
	if got := len(d.RegisteredStores()); got != 1 {
		t.Errorf("duplicate store registration: got %d stores", got)
	}

	v := &stubVehicle{vin: "v1", available: true}
	d.RegisterVehicle(v)
	d.RegisterVehicle(v)
	if got := len(d.RegisteredVehicles()); got != 1 {
		t.Errorf("duplicate vehicle registration: got %d vehicles", got)
	}

	d.RemoveVehicle(v)
	d.RemoveVehicle(v)
	if got := len(d.RegisteredVehicles()); got != 0 {
		t.Errorf("vehicle removal: got %d vehicles", got)
	}
	d.RemoveStore(s)
	d.RemoveStore(s)
	if got := len(d.RegisteredStores()); got != 0 {
		t.Errorf("store removal: got %d stores", got)
	}
}

func TestReceiveOrder_DuplicatesIgnoredByNumber(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}

	a := model.NewOrder("o1", nil, cust, store, false)
	b := model.NewOrder("o1", nil, cust, store, false) // same number, distinct value
	d.ReceiveOrder(a)
	d.ReceiveOrder(a)
	d.ReceiveOrder(b)
	if got := len(d.OrdersNotScheduled()); got != 1 {
		t.Errorf("expected 1 tracked order, got %d", got)
	}
}

func TestForceReceiveOrder_ReconciledWhenInTransit(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)
	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	v := &stubVehicle{vin: "v1", available: true, distances: model.DistanceTable{"st1": 3}}
	d.RegisterVehicle(v)

	order := model.NewOrder("o1", nil, cust, store, false)
	d.ReceiveOrder(order)
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	// Forced submission bypasses the duplicate guard; the next dispatch run
	// must reconcile it away instead of delivering twice.
	d.ForceReceiveOrder(order)
	if got := len(d.OrdersNotScheduled()); got != 1 {
		t.Fatalf("expected forced order in backlog, got %d", got)
	}
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch after force: %v", err)
	}
	if len(v.accepted) != 1 {
		t.Errorf("order delivered twice: %v", v.accepted)
	}
	if got := len(d.OrdersInTransit()); got != 1 {
		t.Errorf("expected 1 order in transit, got %d", got)
	}
}

func TestMarkDelivered(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)
	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	v := &stubVehicle{vin: "v1", available: true, distances: model.DistanceTable{"st1": 3}}
	d.RegisterVehicle(v)

	order := model.NewOrder("o1", nil, cust, store, false)
	stranger := model.NewOrder("o2", nil, cust, store, false)

	// Unknown order: no-op.
	d.MarkDelivered(stranger)
	if got := len(d.OrdersDeliveryComplete()); got != 0 {
		t.Fatalf("unexpected delivered orders: %d", got)
	}

	d.ReceiveOrder(order)
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	d.MarkDelivered(order)
	if got := len(d.OrdersInTransit()); got != 0 {
		t.Errorf("expected empty transit list, got %d", got)
	}
	if got := len(d.OrdersDeliveryComplete()); got != 1 {
		t.Errorf("expected 1 delivered order, got %d", got)
	}
}

func TestOrderCollectionsStayDisjoint(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)
	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 2}}
	v := &stubVehicle{vin: "v1", available: true, distances: model.DistanceTable{"st1": 1}}
	d.RegisterVehicle(v)

	orders := []*model.Order{
		model.NewOrder("o1", nil, cust, store, false),
		model.NewOrder("o2", nil, cust, store, false),
		model.NewOrder("o3", nil, cust, store, false),
	}
	for _, o := range orders {
		d.ReceiveOrder(o)
	}
	if err := d.DispatchVehicles(context.Background()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	d.MarkDelivered(orders[0])

	seen := map[string]int{}
	for _, o := range d.OrdersNotScheduled() {
		seen[o.Number()]++
	}
	for _, o := range d.OrdersInTransit() {
		seen[o.Number()]++
	}
	for _, o := range d.OrdersDeliveryComplete() {
		seen[o.Number()]++
	}
	for num, n := range seen {
		if n != 1 {
			t.Errorf("order %s tracked %d times", num, n)
		}
	}
	if len(seen) != len(orders) {
		t.Errorf("expected %d tracked orders, got %d", len(orders), len(seen))
	}
}

func TestDispatchVehicles_ContextCanceled(t *testing.T) {
	d := newTestDispatcher(t)
	store := model.Store{ID: "st1"}
	d.RegisterStore(store)
	cust := &stubCustomer{id: "c1", distances: model.DistanceTable{"st1": 5}}
	d.ReceiveOrder(model.NewOrder("o1", nil, cust, store, false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.DispatchVehicles(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
