package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for database operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotConnected indicates the graph store is unreachable. Callers
	// at the health-check boundary map this to a connectivity flag,
	// never a crash.
	ErrNotConnected = errors.New("graph store not connected")

	// ErrAlreadyExists indicates a node or relation with the same
	// unique key already exists. Seeding treats this as idempotent.
	ErrAlreadyExists = errors.New("record already exists")
)

// wrapQueryError inspects a SurrealDB error and wraps it with the
// appropriate sentinel if it matches a known pattern. Returns the
// original error otherwise.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		if strings.Contains(queryErr.Message, "already exists") {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, queryErr.Message)
		}
	}

	return err
}
