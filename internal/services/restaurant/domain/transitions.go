package domain

import (
	"fmt"
	"strings"
)

// TransitionPolicy decides which order status moves are allowed.
// Re-applying the current status is always accepted by the service and
// never reaches the policy.
type TransitionPolicy interface {
	Name() string
	Allows(from, to OrderStatus) bool
}

const (
	// TransitionPolicyPermissive names PermissiveTransitions.
	TransitionPolicyPermissive = "permissive"
	// TransitionPolicyForwardOnly names ForwardOnlyTransitions.
	TransitionPolicyForwardOnly = "forward-only"
)

// PermissiveTransitions lets staff move an order to any status.
type PermissiveTransitions struct{}

// Name implements TransitionPolicy.
func (PermissiveTransitions) Name() string { return TransitionPolicyPermissive }

// Allows implements TransitionPolicy.
func (PermissiveTransitions) Allows(_, _ OrderStatus) bool { return true }

// ForwardOnlyTransitions only moves orders forward through the kitchen flow.
// Steps may be skipped (pickup orders never go out for delivery), any open
// order may be cancelled, and completed or cancelled orders are final.
type ForwardOnlyTransitions struct{}

var lifecycleRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusPreparing:  2,
	OrderStatusDelivering: 3,
	OrderStatusCompleted:  4,
}

// Name implements TransitionPolicy.
func (ForwardOnlyTransitions) Name() string { return TransitionPolicyForwardOnly }

// Allows implements TransitionPolicy.
func (ForwardOnlyTransitions) Allows(from, to OrderStatus) bool {
	from = from.Normalized()
	if from == OrderStatusCompleted || from == OrderStatusCancelled {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, okFrom := lifecycleRank[from]
	toRank, okTo := lifecycleRank[to]
	return okFrom && okTo && toRank > fromRank
}

// ParseTransitionPolicy resolves a configured policy name.
func ParseTransitionPolicy(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", TransitionPolicyPermissive:
		return PermissiveTransitions{}, nil
	case TransitionPolicyForwardOnly:
		return ForwardOnlyTransitions{}, nil
	default:
		return nil, fmt.Errorf("unknown order transition policy %q", name)
	}
}

// reservationTransitionAllowed holds the reservation approval table.
// Pending may be confirmed or cancelled; staff may flip between confirmed
// and cancelled to correct mistakes. Nothing returns to pending.
func reservationTransitionAllowed(from, to ReservationStatus) bool {
	if from == to {
		return true
	}
	switch to {
	case ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	default:
		return false
	}
}
