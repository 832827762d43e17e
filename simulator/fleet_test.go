package simulator

import (
	"math/rand"
	"testing"
)

func TestGenerateFleet(t *testing.T) {
	cfg := Config{Stores: 3, Vehicles: 4, Customers: 5, MaxCustomerDistance: 20}
	rng := rand.New(rand.NewSource(1))
	f := GenerateFleet(cfg, rng, nil)

	if len(f.Stores) != 3 || len(f.Vans) != 4 || len(f.Customers) != 5 {
		t.Fatalf("unexpected fleet sizes: %d stores, %d vans, %d customers",
			len(f.Stores), len(f.Vans), len(f.Customers))
	}
	if f.Stores[0].ID != "st0001" || f.Vans[0].VIN() != "van0001" || f.Customers[0].ID() != "cust0001" {
		t.Errorf("unexpected identifiers: %s %s %s",
			f.Stores[0].ID, f.Vans[0].VIN(), f.Customers[0].ID())
	}
	for _, c := range f.Customers {
		table := c.DistanceFromEachStore()
		for _, s := range f.Stores {
			d, ok := table.To(s.ID)
			if !ok {
				t.Fatalf("customer %s missing distance for %s", c.ID(), s.ID)
			}
			if d < 0 || d >= cfg.MaxCustomerDistance {
				t.Errorf("distance %d out of range for %s", d, c.ID())
			}
		}
	}
}

func TestGenerateFleet_FreezerFraction(t *testing.T) {
	cfg := Config{Stores: 1, Vehicles: 200, Customers: 1, FreezerPct: 0.5, MaxCustomerDistance: 20}
	rng := rand.New(rand.NewSource(42))
	f := GenerateFleet(cfg, rng, nil)

	freezers := 0
	for _, v := range f.Vans {
		if v.CanTransportFrozen() {
			freezers++
		}
	}
	if freezers == 0 || freezers == len(f.Vans) {
		t.Errorf("expected a mix of freezer and plain vans, got %d/%d", freezers, len(f.Vans))
	}
}

func TestGenerateOrders(t *testing.T) {
	cfg := Config{Stores: 2, Vehicles: 1, Customers: 3, MaxCustomerDistance: 20}
	rng := rand.New(rand.NewSource(7))
	f := GenerateFleet(cfg, rng, nil)

	orders := GenerateOrders(f, 50, 0.5, rng)
	if len(orders) != 50 {
		t.Fatalf("expected 50 orders, got %d", len(orders))
	}
	for _, o := range orders {
		if o.Number() == "" {
			t.Fatalf("order without number")
		}
		products := o.Products()
		if len(products) == 0 {
			t.Fatalf("order %s without products", o.Number())
		}
		// A frozen order must carry a frozen product line and vice versa.
		if products[0].Frozen != o.KeepFrozen() {
			t.Errorf("order %s frozen flag mismatch", o.Number())
		}
	}
}

func TestGenerateOrders_EmptyFleet(t *testing.T) {
	if orders := GenerateOrders(Fleet{}, 10, 0.5, rand.New(rand.NewSource(1))); orders != nil {
		t.Errorf("expected no orders for an empty fleet")
	}
}
