package authz

import "errors"

// ErrUnknownCategory marks an ownership gate wired with a resource category
// the resolver was never taught. It is logged, never returned to callers:
// the check itself reads as a denial.
var ErrUnknownCategory = errors.New("unknown resource category")
