package domain

import "time"

// DefaultCategoryID is the well-known fallback category. Products belonging
// to a removed category are reassigned here when removal does not cascade.
const DefaultCategoryID = "00000000-0000-0000-0000-000000000001"

// Category groups products for browsing and moderation. OwnerID records who
// asked for the category; it is empty for seeded and admin-created ones.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
