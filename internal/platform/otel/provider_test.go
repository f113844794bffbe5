package otel_test

import (
	"context"
	"testing"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/otel"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("BRASA_OTEL_ENDPOINT", "")
	t.Setenv("BRASA_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "restaurant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("BRASA_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("BRASA_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "restaurant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Non-routable address so nothing is exported.
	t.Setenv("BRASA_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("BRASA_OTEL_ENABLED", "")
	t.Setenv("BRASA_OTEL_SAMPLE_RATIO", "0.5")

	shutdown, err := otel.Setup(context.Background(), "dashboard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_RejectsMalformedRatio(t *testing.T) {
	t.Setenv("BRASA_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("BRASA_OTEL_SAMPLE_RATIO", "half")

	shutdown, err := otel.Setup(context.Background(), "dashboard")
	if err == nil {
		t.Fatal("expected parse error for malformed ratio")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestTracerFallsBackToModuleScope(t *testing.T) {
	if otel.Tracer("") == nil {
		t.Fatal("expected tracer")
	}
}
