// Package repository implements the data-access layer over MySQL. Each
// entity has its own repository struct holding a *sql.DB. Sentinel
// errors let handlers map failures onto distinct HTTP statuses instead
// of collapsing everything into one generic message.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row. Handlers
// translate this into a 404 envelope.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// constraint. Handlers translate this into a 409 envelope.
var ErrDuplicate = errors.New("already exists")

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
