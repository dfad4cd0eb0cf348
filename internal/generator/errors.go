package generator

import "errors"

var (
	// ErrIDSpaceExhausted is returned when no unused identifier could be drawn.
	ErrIDSpaceExhausted = errors.New("identifier space exhausted")

	// ErrInfeasibleQuota is returned when the per-role minimum cannot fit in the total.
	ErrInfeasibleQuota = errors.New("role quota infeasible")

	// ErrRetriesExhausted is returned when a constrained draw hit the retry cap.
	ErrRetriesExhausted = errors.New("sampling retries exhausted")

	// ErrEmptyPool is returned when a group is requested from an empty player pool.
	ErrEmptyPool = errors.New("player pool is empty")
)
