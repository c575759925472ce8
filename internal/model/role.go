package model

import "github.com/google/uuid"

// Role is the closed set of account roles. The database stores the string
// value; business rules go through the predicate methods below instead of
// comparing strings at call sites.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleOfficeHead Role = "User"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOfficeHead
}

// Actor identifies the authenticated user performing an operation. It is
// passed explicitly into every service call; services never read session
// state from anywhere else.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	OfficeID *uuid.UUID
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// sameOffice reports whether the actor belongs to the request's office.
func (a Actor) sameOffice(r *Request) bool {
	return a.OfficeID != nil && *a.OfficeID == r.OfficeID
}

// CanViewRequest: admins see everything, office heads only their own office.
func (a Actor) CanViewRequest(r *Request) bool {
	return a.IsAdmin() || a.sameOffice(r)
}

// CanDeleteRequest: admins delete any request regardless of status; an
// office head may only delete a pending request of their own office.
func (a Actor) CanDeleteRequest(r *Request) bool {
	if a.IsAdmin() {
		return true
	}
	return a.sameOffice(r) && r.Status == StatusPending
}

// CanExportRequest mirrors the download rule: admins export anything,
// office heads only their own office's pending requests.
func (a Actor) CanExportRequest(r *Request) bool {
	if a.IsAdmin() {
		return true
	}
	return a.sameOffice(r) && r.Status == StatusPending
}
