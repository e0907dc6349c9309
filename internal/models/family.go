package models

import "time"

// Member roles within a family.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Invite lifecycle states for a family member. The only transition is
// pending -> active; active is terminal.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// Family represents a group of users sharing activities
type Family struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FamilyMember links a user to a family with a role and an invite lifecycle
// status. UserID stays nil until the invited email belongs to a registered
// account.
type FamilyMember struct {
	ID          int64     `json:"id"`
	FamilyID    int64     `json:"familyId"`
	UserID      *int64    `json:"userId"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	InviteEmail string    `json:"inviteEmail"`
	InviteToken string    `json:"inviteToken,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsActive reports whether the membership has been accepted
func (m *FamilyMember) IsActive() bool {
	return m.Status == StatusActive
}

// IsPending reports whether the invite is still awaiting acceptance
func (m *FamilyMember) IsPending() bool {
	return m.Status == StatusPending
}

// ValidRole reports whether role is one of the recognized member roles
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
