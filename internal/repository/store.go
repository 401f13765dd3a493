// Package repository implements the persistence gateway over MySQL.
// Each entity gets its own repo type bound to a querier, which is
// satisfied by both *sql.DB and *sql.Tx, so the same query code runs
// inside and outside transactions. The Store type aggregates the
// repos into the single gateway the services consume.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/powermilk/cinema-reservation/internal/service"
)

// querier is the subset of database/sql used by the repos. Both
// *sql.DB and *sql.Tx satisfy it.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store bundles all entity repos behind the service gateway contract.
// A Store built by NewStore runs each call on its own connection; a
// transaction-scoped Store produced inside InTx runs everything on
// one tx.
type Store struct {
	db *sql.DB // nil for transaction-scoped stores
	*CustomerRepo
	*MovieRepo
	*HallRepo
	*SeatRepo
	*ScreeningRepo
	*ReservationRepo
	*ReservedSeatRepo
	*StatsRepo
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:               db,
		CustomerRepo:     NewCustomerRepo(db),
		MovieRepo:        NewMovieRepo(db),
		HallRepo:         NewHallRepo(db),
		SeatRepo:         NewSeatRepo(db),
		ScreeningRepo:    NewScreeningRepo(db),
		ReservationRepo:  NewReservationRepo(db),
		ReservedSeatRepo: NewReservedSeatRepo(db),
		StatsRepo:        NewStatsRepo(db),
	}
}

func newTxStore(tx *sql.Tx) *Store {
	return &Store{
		CustomerRepo:     NewCustomerRepo(tx),
		MovieRepo:        NewMovieRepo(tx),
		HallRepo:         NewHallRepo(tx),
		SeatRepo:         NewSeatRepo(tx),
		ScreeningRepo:    NewScreeningRepo(tx),
		ReservationRepo:  NewReservationRepo(tx),
		ReservedSeatRepo: NewReservedSeatRepo(tx),
		StatsRepo:        NewStatsRepo(tx),
	}
}

// InTx runs fn against a transaction-scoped Store. The transaction
// commits when fn returns nil and rolls back otherwise; fn's error is
// returned unchanged so sentinel matching in the services survives
// the boundary.
func (s *Store) InTx(ctx context.Context, fn func(service.Store) error) error {
	if s.db == nil {
		return errors.New("nested transactions are not supported")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(newTxStore(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ service.Gateway = (*Store)(nil)
