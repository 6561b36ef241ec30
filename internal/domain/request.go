package domain

import (
	"strings"
	"time"
)

// Moderation request types. A request exists only while pending; approval and
// decline both delete it after applying their side effects.
const (
	RequestAddCategory    = "AddCategory"
	RequestUpdateCategory = "UpdateCategory"
	RequestRemoveCategory = "RemoveCategory"
	RequestApproveManager = "ApproveManager"
)

// ModerationRequest is a pending action awaiting admin resolution.
type ModerationRequest struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	CategoryID  string    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RequestedBy string    `json:"requested_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsValidRequestType checks if a moderation request type is recognized.
func IsValidRequestType(t string) bool {
	switch t {
	case RequestAddCategory, RequestUpdateCategory, RequestRemoveCategory, RequestApproveManager:
		return true
	}
	return false
}

// RemoveCascade reports whether a RemoveCategory request asks for its
// products to be deleted rather than reassigned to the default category. The
// flag rides as a ":true" or ":false" suffix on the description.
func (r ModerationRequest) RemoveCascade() bool {
	return strings.HasSuffix(r.Description, ":true")
}

// DescriptionText returns the description with any trailing cascade flag
// stripped.
func (r ModerationRequest) DescriptionText() string {
	if idx := strings.LastIndex(r.Description, ":"); idx >= 0 {
		switch r.Description[idx:] {
		case ":true", ":false":
			return r.Description[:idx]
		}
	}
	return r.Description
}
