// Package repository holds the SQL-backed user stores and the sentinel
// errors they report. Driver-specific failures are translated here so that
// the layers above never inspect MySQL or Postgres error codes.
package repository

import "errors"

// ErrEmailExists is returned by Create when the unique email index rejects
// the insert. Any other insert failure is reported as a wrapped db error.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned by lookups that require the row to exist
// (GetByID). FindByEmail reports a miss through its found flag instead.
var ErrUserNotFound = errors.New("user not found")
