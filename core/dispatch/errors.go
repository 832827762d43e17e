package dispatch

import (
	"errors"
	"fmt"
)

// ErrNoEligibleVehicle is returned when a full pass over the unscheduled
// orders produces no assignment, or when the pass bound is exceeded.
var ErrNoEligibleVehicle = errors.New("dispatch: no eligible vehicle")

// DistanceLookupError reports a missing distance table entry for a store.
type DistanceLookupError struct {
	Party   string // "customer" or "vehicle"
	ID      string
	StoreID string
}

func (e *DistanceLookupError) Error() string {
	return fmt.Sprintf("dispatch: %s %s has no distance entry for store %s", e.Party, e.ID, e.StoreID)
}
