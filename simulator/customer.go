package simulator

import (
	"sync"

	"github.com/storefleet/dispatch/core/model"
	"github.com/storefleet/dispatch/internal/eventbus"
)

// Customer is an order recipient with a pre-populated distance table. Received
// messages are kept in order and fanned out on a typed bus so interested
// parties can follow notifications live.
type Customer struct {
	mu        sync.Mutex
	id        string
	distances model.DistanceTable
	messages  []string
	inbox     *eventbus.TypedBus[string]
}

// NewCustomer creates a customer with the given distance table.
func NewCustomer(id string, distances model.DistanceTable) *Customer {
	return &Customer{
		id:        id,
		distances: distances.Clone(),
		inbox:     eventbus.NewTyped[string](),
	}
}

func (c *Customer) ID() string { return c.id }

func (c *Customer) DistanceFromEachStore() model.DistanceTable {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distances
}

// SetDistance updates the distance to a single store.
func (c *Customer) SetDistance(storeID string, distance int) {
	c.mu.Lock()
	if c.distances == nil {
		c.distances = model.DistanceTable{}
	}
	c.distances[storeID] = distance
	c.mu.Unlock()
}

// ReceiveMessage stores the notification and publishes it to subscribers.
func (c *Customer) ReceiveMessage(text string) {
	c.mu.Lock()
	c.messages = append(c.messages, text)
	c.mu.Unlock()
	c.inbox.Publish(text)
}

// Messages returns a copy of all notifications received so far.
func (c *Customer) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

// Subscribe returns a channel receiving future notifications.
func (c *Customer) Subscribe() <-chan string { return c.inbox.Subscribe() }

// Close shuts down the notification bus.
func (c *Customer) Close() { c.inbox.Close() }
