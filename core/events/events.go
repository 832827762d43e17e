package events

import "time"

// OrderScheduledEvent is published when an order is assigned to a vehicle.
type OrderScheduledEvent struct {
	OrderNumber      string
	VehicleVIN       string
	StoreID          string
	CustomerID       string
	Distance         int
	Frozen           bool
	IncreasedTraffic bool
	Time             time.Time
}

// OrderDeliveredEvent is published when a vehicle reports an order delivered.
type OrderDeliveredEvent struct {
	OrderNumber string
	Time        time.Time
}

// TrafficEvent is published when the global traffic condition changes.
type TrafficEvent struct {
	Increased bool
	Time      time.Time
}
