package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation is not allowed in the resource's current state
// (posting into a locked period, reversing an already-reversed entry, and so on).
var ErrConflict = errors.New("operation conflicts with current state")

// ErrConcurrency indicates a lost-update was detected while applying balances.
// The posting engine retries these a bounded number of times before surfacing them.
var ErrConcurrency = errors.New("concurrent update detected")

// ErrIntegrity indicates the ledger itself is inconsistent (trial balance out of
// balance, cached balance diverging from the replayed line sum). This is not a
// business error: postings against the affected account must halt.
var ErrIntegrity = errors.New("ledger inconsistency detected")
