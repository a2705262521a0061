package domain

import "time"

// Category groups tickets for triage. Managed by admins only.
type Category struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
