package domain

import "testing"

func TestForwardOnlyTransitions(t *testing.T) {
	t.Parallel()

	policy := ForwardOnlyTransitions{}
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusCompleted, true},
		{OrderStatusDelivering, OrderStatusCompleted, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusPending, false},
	}
	for _, tc := range tests {
		if got := policy.Allows(tc.from, tc.to); got != tc.want {
			t.Fatalf("Allows(%s, %s) = %t, want %t", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPermissiveTransitionsAllowEverything(t *testing.T) {
	t.Parallel()

	policy := PermissiveTransitions{}
	for _, from := range OrderStatuses() {
		for _, to := range OrderStatuses() {
			if !policy.Allows(from, to) {
				t.Fatalf("Allows(%s, %s) = false", from, to)
			}
		}
	}
}

func TestParseTransitionPolicy(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":             TransitionPolicyPermissive,
		"permissive":   TransitionPolicyPermissive,
		"FORWARD-ONLY": TransitionPolicyForwardOnly,
	}
	for raw, want := range tests {
		policy, err := ParseTransitionPolicy(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if policy.Name() != want {
			t.Fatalf("parse %q = %s, want %s", raw, policy.Name(), want)
		}
	}
	if _, err := ParseTransitionPolicy("strict"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestReservationTransitionTable(t *testing.T) {
	t.Parallel()

	if !reservationTransitionAllowed(ReservationStatusPending, ReservationStatusConfirmed) {
		t.Fatal("pending -> confirmed should be allowed")
	}
	if !reservationTransitionAllowed(ReservationStatusConfirmed, ReservationStatusCancelled) {
		t.Fatal("confirmed -> cancelled should be allowed")
	}
	if !reservationTransitionAllowed(ReservationStatusCancelled, ReservationStatusConfirmed) {
		t.Fatal("cancelled -> confirmed should be allowed")
	}
	if reservationTransitionAllowed(ReservationStatusConfirmed, ReservationStatusPending) {
		t.Fatal("confirmed -> pending should be refused")
	}
}
