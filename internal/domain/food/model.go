// Package food defines the catalog item model served by the admin API.
package food

import "strconv"

// Item is a single catalog entry.
//
// InStock is an independently settable flag, not derived from StockQty: the
// upstream API allows marking an item out of stock while quantity remains
// positive, and the reverse. Both fields are reported as the server last
// confirmed them.
type Item struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount"`
	StockQty    int      `json:"stockQty"`
	InStock     bool     `json:"inStock"`
	Images      []string `json:"images"`
}

// Key returns the collection key for the item.
func (i Item) Key() string { return i.ID }

// Input carries the editable fields of a catalog item. Create and update
// calls submit it as multipart form fields alongside any image uploads.
type Input struct {
	Title       string
	Description string
	Price       float64
	Discount    float64
	StockQty    int
}

// Fields renders the input as multipart form values. Empty strings are
// omitted so partial updates keep the server-side value.
func (in Input) Fields() map[string]string {
	fields := map[string]string{
		"price":    strconv.FormatFloat(in.Price, 'f', -1, 64),
		"discount": strconv.FormatFloat(in.Discount, 'f', -1, 64),
		"stockQty": strconv.Itoa(in.StockQty),
	}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	return fields
}
