package ledger

import "errors"

// Engine errors. Handlers branch on these with errors.Is; the engine never
// swallows or retries anything itself.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrReferenced = errors.New("referenced by transactions")
)
