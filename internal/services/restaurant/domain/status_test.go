package domain

import (
	"testing"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	for _, status := range OrderStatuses() {
		got, err := ParseOrderStatus(" " + string(status) + " ")
		if err != nil || got != status {
			t.Fatalf("ParseOrderStatus(%q) = %q, %v", status, got, err)
		}
	}
	_, err := ParseOrderStatus("delivered")
	if apperrors.CodeOf(err) != apperrors.CodeOrderInvalidStatus {
		t.Fatalf("legacy delivered should be rejected, got %v", err)
	}
}

func TestPaymentMethodInitialStatus(t *testing.T) {
	t.Parallel()

	tests := map[PaymentMethod]PaymentStatus{
		PaymentMethodCard: PaymentStatusPaid,
		PaymentMethodPix:  PaymentStatusPending,
		PaymentMethodCash: PaymentStatusPending,
	}
	for method, want := range tests {
		if got := method.InitialPaymentStatus(); got != want {
			t.Fatalf("%s initial payment status = %s, want %s", method, got, want)
		}
	}
}

func TestParseDeliveryTypeDefaultsToDelivery(t *testing.T) {
	t.Parallel()

	got, err := ParseDeliveryType("")
	if err != nil || got != DeliveryTypeDelivery {
		t.Fatalf("ParseDeliveryType(\"\") = %q, %v", got, err)
	}
	if _, err := ParseDeliveryType("teleport"); apperrors.KindOf(err) != apperrors.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	if !OrderStatusDelivered.IsCompleted() || OrderStatusDelivered.Normalized() != OrderStatusCompleted {
		t.Fatal("delivered should read as completed")
	}
	if ReservationStatusCancelled.HoldsCapacity() || !ReservationStatusPending.HoldsCapacity() {
		t.Fatal("only cancelled reservations release capacity")
	}
}
