// Package repository holds the reservation store, the reminder ledger and
// the persistence backends behind them. The sentinel values below let the
// service layer tell missing records apart from storage failures.
package repository

import "errors"

// ErrNotFound is returned when no reservation has the requested id.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert would reuse an existing id.
var ErrConflict = errors.New("conflict")
