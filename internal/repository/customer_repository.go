package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/powermilk/cinema-reservation/internal/model"
)

// CustomerRepo provides read access to the customers table.
// Customers are reference data here; account management lives in a
// separate system and this service only resolves the foreign keys it
// stores on reservations.
type CustomerRepo struct {
	q querier
}

// NewCustomerRepo returns a CustomerRepo bound to the given querier.
func NewCustomerRepo(q querier) *CustomerRepo { return &CustomerRepo{q: q} }

// FindCustomer returns the customer with the given id, or (nil, nil)
// when no such customer exists.
func (r *CustomerRepo) FindCustomer(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT id, email, name FROM customers WHERE id = ?`
	var c model.Customer
	err := r.q.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Email, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
