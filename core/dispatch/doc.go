// Package dispatch implements the store-delivery dispatcher. A single
// StoreDispatcher per running system tracks registered stores and vehicles,
// receives orders and moves them through their lifecycle: not scheduled,
// in transit, delivery complete.
//
// The assignment loop matches every unscheduled order to the available
// vehicle with the smallest total travel distance (customer to store plus
// vehicle to store). Frozen orders require a freezer-capable vehicle when the
// total distance exceeds the configured limit or when increased traffic has
// been reported. The loop is bounded: if a full pass produces no assignment
// it stops with ErrNoEligibleVehicle instead of spinning.
package dispatch
