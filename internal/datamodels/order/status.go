package order

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusPending is the initial state: the cart is open for mutation.
	StatusPending Status = "Pending"
	// StatusPlaced means the order was completed. Queryable but immutable.
	StatusPlaced Status = "Placed"
	// StatusCancelled is terminal.
	StatusCancelled Status = "Cancelled"
)

// Mutable reports whether add/remove commands are allowed in this state.
// Only a Pending cart may change.
func (s Status) Mutable() bool {
	return s == StatusPending
}

// CanTransition reports whether the state machine permits moving to next.
// Pending -> Placed, Pending/Placed -> Cancelled; nothing leaves Cancelled
// and nothing returns to Pending through this table (the engine's explicit
// re-pending after a remove bypasses it deliberately, see CartService).
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusPlaced || next == StatusCancelled
	case StatusPlaced:
		return next == StatusCancelled
	default:
		return false
	}
}

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPlaced || s == StatusCancelled
}
