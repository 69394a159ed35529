package models

import "fmt"

// Role is the closed three-way authorization enumeration reported by the backend.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAnnotator Role = "annotator"
	RoleViewer    Role = "viewer"
)

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleAnnotator, RoleViewer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Capability enumerates gated client actions.
//
// Admin-only surfaces check capabilities rather than comparing role
// strings inline, so a typo cannot silently widen access.
type Capability int

const (
	CapCreateDatasets Capability = iota
	CapDeleteDatasets
	CapStartTranscription
	CapManageUsers
	CapViewStatistics
	CapReviewSamples
	CapEditSamples
)

// Can reports whether the role holds the capability.
//
// This table is the client-side gate only; the backend enforces
// authorization on every request regardless.
func (r Role) Can(c Capability) bool {
	switch c {
	case CapCreateDatasets, CapDeleteDatasets, CapStartTranscription, CapManageUsers, CapViewStatistics:
		return r == RoleAdmin
	case CapReviewSamples, CapEditSamples:
		return r == RoleAdmin || r == RoleAnnotator
	default:
		return false
	}
}

// User represents an authenticated account.
type User struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
