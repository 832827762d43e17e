package journal

import (
	"context"
	"time"
)

// Record captures one assignment decision.
type Record struct {
	Timestamp        time.Time `json:"timestamp"`
	OrderNumber      string    `json:"order_number"`
	VehicleVIN       string    `json:"vehicle_vin"`
	StoreID          string    `json:"store_id"`
	CustomerID       string    `json:"customer_id"`
	Distance         int       `json:"distance"`
	Frozen           bool      `json:"frozen"`
	IncreasedTraffic bool      `json:"increased_traffic"`
}

// Query defines filters for retrieving records. Zero values match everything.
type Query struct {
	Start       time.Time
	End         time.Time
	VehicleVIN  string
	OrderNumber string
	FrozenOnly  bool
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
