package domain

import (
	"fmt"

	apperrors "github.com/mayankwalia/MyBasketBackend/pkg/errors"
)

// Role names as stored on the user record.
const (
	RoleCustomer     = "customer"
	RoleStoreManager = "store_manager"
	RoleAdmin        = "admin"
)

// IsValidRole checks if a role name is recognized.
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStoreManager, RoleAdmin:
		return true
	}
	return false
}

// Capability identifies the caller of an operation. It is constructed at the
// transport boundary and passed explicitly into every role-gated operation.
type Capability struct {
	UserID string
	Role   string
}

// RequireRole fails closed with a permission error unless the capability's
// role is one of the allowed roles.
func (c Capability) RequireRole(allowed ...string) error {
	for _, role := range allowed {
		if c.Role == role {
			return nil
		}
	}
	return apperrors.PermissionDenied(fmt.Sprintf("role %q is not permitted", c.Role))
}

// IsOwner reports whether the capability belongs to the given user.
func (c Capability) IsOwner(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}
