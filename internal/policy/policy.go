// Package policy holds the shared access rules for tickets, comments and
// categories. Every rule is a pure function of the actor and the target
// ticket's owner, so the whole matrix is reviewable in one place.
package policy

import "github.com/spec-kit/helpdesk/internal/domain"

// Operation names a guarded action.
type Operation string

const (
	// OpTicketRead covers show, comment listing/creation and activity listing.
	OpTicketRead Operation = "ticket:read"
	// OpTicketUpdate covers the owner-editable descriptive fields.
	OpTicketUpdate Operation = "ticket:update"
	// OpTicketTriage covers status changes, assignment and internal notes.
	OpTicketTriage Operation = "ticket:triage"
	// OpCategoryManage covers category CRUD.
	OpCategoryManage Operation = "category:manage"
)

// Allows decides whether actor may perform op against a ticket owned by
// ownerID. Denial carries no side effects; callers translate it to a
// Forbidden error. Existence checks must run before calling Allows so that
// a missing target reports Not-Found, not Forbidden.
func Allows(actor domain.Actor, op Operation, ownerID string) bool {
	switch op {
	case OpTicketRead, OpTicketUpdate:
		if actor.Role.IsStaff() {
			return true
		}
		return actor.ID == ownerID
	case OpTicketTriage:
		return actor.Role.IsStaff()
	case OpCategoryManage:
		return actor.Role == domain.RoleAdmin
	}
	return false
}

// OwnerScope returns the owner filter a list operation must apply for the
// actor: plain users are forcibly restricted to their own tickets
// regardless of any filters they supply, staff see everything.
func OwnerScope(actor domain.Actor) *string {
	if actor.Role.IsStaff() {
		return nil
	}
	id := actor.ID
	return &id
}
