package ask

import "errors"

var (
	// ErrIndexRequired is returned when no vector index is provided.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrHistoryRequired is returned when no history repository is provided.
	ErrHistoryRequired = errors.New("history repository is required")

	// ErrProviderRequired is returned when no AI provider is provided.
	ErrProviderRequired = errors.New("AI provider is required")

	// ErrCounterRequired is returned when no token counter is provided.
	ErrCounterRequired = errors.New("token counter is required")

	// ErrInvalidMaxTurns is returned when max turns is negative.
	ErrInvalidMaxTurns = errors.New("max turns must be >= 0")

	// ErrInvalidTokenBudget is returned when the token budget is not positive.
	ErrInvalidTokenBudget = errors.New("token budget must be > 0")

	// ErrInvalidSafetyMargin is returned when the safety margin is negative
	// or leaves no room under the budget.
	ErrInvalidSafetyMargin = errors.New("safety margin must be >= 0 and < token budget")
)
