package domain

import "time"

// Profile is the billing-side view of a user account. Identity itself is
// owned by the external auth provider; this service only reads and debits
// the credit balance keyed by the provider's user id.
type Profile struct {
	UserID    string
	Credits   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanAfford reports whether the balance covers the given admission cost.
func (p Profile) CanAfford(cost int) bool {
	return p.Credits >= cost
}
