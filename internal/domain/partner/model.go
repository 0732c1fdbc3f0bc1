// Package partner defines the delivery partner model.
package partner

// Status marks whether a partner currently takes assignments.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Partner is a delivery partner as returned by the admin API.
type Partner struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	VehicleInfo string `json:"vehicleInfo"`
	Status      Status `json:"status"`
}

// Key returns the collection key for the partner.
func (p Partner) Key() string { return p.ID }

// Input carries the editable fields for create and update calls.
type Input struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	VehicleInfo string `json:"vehicleInfo"`
	Status      Status `json:"status,omitempty"`
}
