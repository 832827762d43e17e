package model

// DistanceTable maps store IDs to a distance in arbitrary units. Both
// customers and vehicles carry one; the dispatcher sums the two sides to
// compute the total travel distance of an assignment.
type DistanceTable map[string]int

// To returns the distance to the given store. The second return value is
// false when the table has no entry for the store.
func (t DistanceTable) To(storeID string) (int, bool) {
	d, ok := t[storeID]
	return d, ok
}

// Clone returns an independent copy of the table. A nil table stays nil.
func (t DistanceTable) Clone() DistanceTable {
	if t == nil {
		return nil
	}
	c := make(DistanceTable, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
