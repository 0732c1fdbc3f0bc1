// Package order defines the customer order model and its status lifecycle.
package order

import "time"

// Customer identifies who placed an order and where it ships.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LineItem is one catalog entry within an order.
type LineItem struct {
	Title string `json:"title"`
	Qty   int    `json:"qty"`
}

// Order is a customer order as returned by the admin API.
//
// AssignedPartner is a weak reference: it carries a partner id for lookup in
// the partner collection, never an ownership edge. A dangling reference (the
// partner was deleted) is valid and renders as unassigned.
type Order struct {
	ID              string     `json:"_id"`
	Customer        Customer   `json:"customer"`
	Items           []LineItem `json:"items"`
	Total           float64    `json:"total"`
	Status          Status     `json:"status"`
	AssignedPartner string     `json:"assignedPartner,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Key returns the collection key for the order.
func (o Order) Key() string { return o.ID }
