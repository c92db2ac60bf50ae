package repository

import "errors"

// ErrNotFound is returned when a row scoped to the requesting user does not
// exist (wrong id or someone else's record).
var ErrNotFound = errors.New("record not found")
