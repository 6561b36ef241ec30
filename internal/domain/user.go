package domain

import "time"

// User represents a storefront account. Credentials live at the gateway;
// this service only tracks profile, role, and activity state.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Approved  bool       `json:"approved"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
