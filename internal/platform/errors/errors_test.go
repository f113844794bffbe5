package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("create order: %w", Validation(CodeOrderItemsRequired, "items", "items are required"))
	if !stderrors.Is(err, New(CodeOrderItemsRequired, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeOrderAddressRequired, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestValidationCarriesField(t *testing.T) {
	appErr, ok := As(fmt.Errorf("wrapped: %w", Validation(CodeReservationInvalidParty, "people", "party size out of range")))
	if !ok {
		t.Fatal("expected structured error")
	}
	if appErr.Field() != "people" {
		t.Fatalf("field = %q, want %q", appErr.Field(), "people")
	}
}

func TestHTTPStatusMapsKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: New(CodeOrderInvalidStatus, "bad status"), want: http.StatusBadRequest},
		{name: "not found", err: New(CodeOrderNotFound, "missing"), want: http.StatusNotFound},
		{name: "capacity", err: New(CodeReservationSlotFull, "full"), want: http.StatusConflict},
		{name: "conflict", err: New(CodeOrderVersionConflict, "stale"), want: http.StatusConflict},
		{name: "persistence", err: Persistence("insert order", stderrors.New("disk full")), want: http.StatusInternalServerError},
		{name: "plain", err: stderrors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPublicMessageHidesStorageDetails(t *testing.T) {
	err := Persistence("insert order", stderrors.New("database is locked"))
	if got := PublicMessage(err); got != genericFailureMessage {
		t.Fatalf("public message = %q, want %q", got, genericFailureMessage)
	}
	if err.Error() != "insert order failed: database is locked" {
		t.Fatalf("log message = %q", err.Error())
	}
	if got := PublicMessage(New(CodeOrderNotFound, "order not found")); got != "order not found" {
		t.Fatalf("public message = %q, want %q", got, "order not found")
	}
}

func TestKindOfUnknownCode(t *testing.T) {
	if got := KindOf(New(Code("SOMETHING_ELSE"), "x")); got != KindUnknown {
		t.Fatalf("kind = %q, want %q", got, KindUnknown)
	}
	if HasKind(nil, KindValidation) {
		t.Fatal("nil error should not have a kind")
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %q, want %q", got, CodeUnknown)
	}
}
