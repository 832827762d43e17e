package model

// Vehicle is the capability surface the dispatcher requires from a delivery
// vehicle. Concrete implementations live outside the core (see simulator).
type Vehicle interface {
	// VIN uniquely identifies the vehicle within the fleet.
	VIN() string
	// Available reports whether the vehicle can take new deliveries.
	Available() bool
	// CanTransportFrozen reports whether the vehicle has a freezer unit.
	CanTransportFrozen() bool
	// DistanceFromEachStore returns the vehicle's current distance table.
	DistanceFromEachStore() DistanceTable
	// DeliverOrder assigns the order to the vehicle together with the total
	// travel distance computed by the dispatcher.
	DeliverOrder(order *Order, distance int) error
}
