package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "secret", "db.internal", "3306", "cinema")
	assert.Equal(t, "app:secret@tcp(db.internal:3306)/cinema?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", got)

	// No password, no colon in the credentials part.
	got = dsn("root", "", "localhost", "3306", "cinema")
	assert.Equal(t, "root@tcp(localhost:3306)/cinema?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", got)
}

// clientFoundRows makes RowsAffected report matched rows, which the
// reservation repository relies on to distinguish a missing row from
// an update that wrote an unchanged state.
func TestDSNRequestsFoundRows(t *testing.T) {
	assert.Contains(t, dsn("u", "p", "h", "3306", "d"), "clientFoundRows=true")
}
