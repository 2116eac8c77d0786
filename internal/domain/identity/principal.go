package identity

import "time"

// Account is a back-office administration principal. The record is owned by
// the platform core; the gateway only holds it for the lifetime of a
// session and drops it on logout or on a failed identity check.
type Account struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PreferredName string    `json:"preferred_name,omitempty"`
	Email         string    `json:"email"`
	Role          string    `json:"role,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// DisplayName returns the name shown in the back-office chrome.
func (a Account) DisplayName() string {
	if a.PreferredName != "" {
		return a.PreferredName
	}
	return a.FirstName + " " + a.LastName
}

// Customer is a storefront shopper principal, the customer-side twin of
// Account.
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
