// Package auth defines the authenticated user model.
package auth

// User is the staff identity returned by the OTP verification endpoint and
// persisted between runs for instant rehydration.
type User struct {
	ID    string `json:"id"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}
