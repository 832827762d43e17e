package model

// Customer is an order recipient. The dispatcher uses the distance table to
// compute assignment costs and the message channel to confirm scheduling.
type Customer interface {
	// ID uniquely identifies the customer.
	ID() string
	// DistanceFromEachStore returns the customer's distance table.
	DistanceFromEachStore() DistanceTable
	// ReceiveMessage delivers a notification to the customer.
	ReceiveMessage(text string)
}
