package model

// Product is a line item on an order. Frozen products require
// temperature-controlled transport.
type Product struct {
	SKU    string `json:"sku"`
	Name   string `json:"name"`
	Frozen bool   `json:"frozen"`
}
