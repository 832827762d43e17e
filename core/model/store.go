package model

// Store is a retail location that submits delivery orders.
type Store struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
