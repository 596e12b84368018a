package statemachine

import (
	"errors"
	"fmt"

	"tiffin-market-api/models"
)

// ErrTerminalState is returned when a transition is attempted on a
// delivered or cancelled order.
var ErrTerminalState = errors.New("order is in a terminal state and cannot change")

// next maps each non-terminal status to its single linear successor.
var next = map[models.OrderStatus]models.OrderStatus{
	models.StatusPending:        models.StatusConfirmed,
	models.StatusConfirmed:      models.StatusPreparing,
	models.StatusPreparing:      models.StatusReady,
	models.StatusReady:          models.StatusOutForDelivery,
	models.StatusOutForDelivery: models.StatusDelivered,
}

// IsTerminal reports whether no further transitions are accepted.
func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusDelivered || s == models.StatusCancelled
}

// NextStatus returns the linear successor of a non-terminal status.
func NextStatus(s models.OrderStatus) (models.OrderStatus, bool) {
	n, ok := next[s]
	return n, ok
}

// CanTransition validates a seller-driven order transition: either the next
// linear status or cancellation from any non-terminal state. Skipping ahead
// is rejected.
func CanTransition(from, to models.OrderStatus) error {
	if IsTerminal(from) {
		return ErrTerminalState
	}
	if to == models.StatusCancelled {
		return nil
	}
	if n, ok := next[from]; ok && n == to {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s (next valid status is %s)", from, to, next[from])
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s models.OrderStatus) bool {
	if s == models.StatusCancelled || s == models.StatusDelivered {
		return true
	}
	_, ok := next[s]
	return ok
}
