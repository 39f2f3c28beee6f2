package journey

import "errors"

// Error taxonomy for lifecycle operations. Callers branch on these with
// errors.Is; everything else is a storage or oracle failure passed through
// wrapped.
var (
	// ErrNotFound covers a missing session or a day number absent from the
	// current plan.
	ErrNotFound = errors.New("not found")

	// ErrPrecondition means the session exists but is not in a state that
	// permits the operation (no plan yet, no profile yet, no resolvable
	// delivery email).
	ErrPrecondition = errors.New("precondition failed")
)
