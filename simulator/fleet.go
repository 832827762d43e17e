package simulator

import (
	"fmt"
	"math/rand"

	"github.com/storefleet/dispatch/core/logger"
	"github.com/storefleet/dispatch/core/model"
)

// Config holds parameters for bulk fleet and order generation.
type Config struct {
	Stores    int `json:"stores"`
	Vehicles  int `json:"vehicles"`
	Customers int `json:"customers"`
	Orders    int `json:"orders"`
	// FreezerPct is the fraction of generated vans equipped with a freezer.
	FreezerPct float64 `json:"freezer_pct"`
	// FrozenPct is the fraction of generated orders requiring frozen transport.
	FrozenPct float64 `json:"frozen_pct"`
	// MaxCustomerDistance is the exclusive upper bound for generated
	// customer-to-store distances.
	MaxCustomerDistance int `json:"max_customer_distance"`
	// Seed makes generation reproducible. Zero seeds from the current time.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Stores == 0 {
		c.Stores = 2
	}
	if c.Vehicles == 0 {
		c.Vehicles = 5
	}
	if c.Customers == 0 {
		c.Customers = 10
	}
	if c.Orders == 0 {
		c.Orders = 20
	}
	if c.FreezerPct == 0 {
		c.FreezerPct = 0.4
	}
	if c.FrozenPct == 0 {
		c.FrozenPct = 0.25
	}
	if c.MaxCustomerDistance == 0 {
		c.MaxCustomerDistance = 20
	}
}

// Fleet bundles the generated entities of one simulation run.
type Fleet struct {
	Stores    []model.Store
	Vans      []*Van
	Customers []*Customer
}

// GenerateFleet creates stores st0001.., vans van0001.. and customers
// cust0001.. with fully populated customer distance tables.
func GenerateFleet(cfg Config, rng *rand.Rand, log logger.Logger) Fleet {
	var f Fleet
	for i := 0; i < cfg.Stores; i++ {
		f.Stores = append(f.Stores, model.Store{
			ID:   fmt.Sprintf("st%04d", i+1),
			Name: fmt.Sprintf("Store %d", i+1),
		})
	}
	for i := 0; i < cfg.Vehicles; i++ {
		freezer := rng.Float64() < cfg.FreezerPct
		f.Vans = append(f.Vans, NewVan(fmt.Sprintf("van%04d", i+1), freezer, log))
	}
	for i := 0; i < cfg.Customers; i++ {
		distances := make(model.DistanceTable, len(f.Stores))
		for _, s := range f.Stores {
			distances[s.ID] = rng.Intn(cfg.MaxCustomerDistance)
		}
		f.Customers = append(f.Customers, NewCustomer(fmt.Sprintf("cust%04d", i+1), distances))
	}
	return f
}

// GenerateOrders produces n orders spread over the fleet's stores and
// customers. Frozen orders carry a frozen product line.
func GenerateOrders(f Fleet, n int, frozenPct float64, rng *rand.Rand) []*model.Order {
	if len(f.Stores) == 0 || len(f.Customers) == 0 {
		return nil
	}
	orders := make([]*model.Order, 0, n)
	for i := 0; i < n; i++ {
		store := f.Stores[rng.Intn(len(f.Stores))]
		customer := f.Customers[rng.Intn(len(f.Customers))]
		frozen := rng.Float64() < frozenPct
		products := []model.Product{{
			SKU:    fmt.Sprintf("sku%04d", rng.Intn(1000)),
			Name:   "Grocery item",
			Frozen: frozen,
		}}
		orders = append(orders, model.NewOrder(
			fmt.Sprintf("ord%05d", i+1), products, customer, store, frozen))
	}
	return orders
}
