// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by primary key matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index, such as
// a second subscription for the same (user, course) pair.
var ErrDuplicate = errors.New("duplicate entry")

// ErrForeignKey is returned when a row references a parent that does not
// exist (for example a lesson pointing at a missing course).
var ErrForeignKey = errors.New("referenced row does not exist")

// MySQL server error numbers decoded by mapErr.
const (
	mysqlDuplicateEntry = 1062
	mysqlNoReferenced   = 1452
)

// mapErr converts driver errors into the sentinels above and leaves
// everything else untouched.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return ErrDuplicate
		case mysqlNoReferenced:
			return ErrForeignKey
		}
	}
	return err
}
