package model

// Customer represents a registered cinema customer as stored in the
// `customers` table.  Customers are created once and never modified by
// the reservation flow; the engine only resolves them by id when a
// reservation is created.
//
// Fields:
//
//	ID    – primary key identifier.
//	Email – unique, non-blank email address.
//	Name  – display name shown on reservation details.
type Customer struct {
	ID    uint64 `json:"id"`    // customers.id
	Email string `json:"email"` // customers.email (unique)
	Name  string `json:"name"`  // customers.name
}
