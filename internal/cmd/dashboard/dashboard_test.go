package dashboard

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.PollInterval != 10*time.Second || cfg.Detector != "newest-id" || cfg.Locale != "pt-BR" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DialTimeout != 2*time.Second {
		t.Fatalf("dial timeout = %s", cfg.DialTimeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("BRASA_DASHBOARD_API_URL", "http://restaurant:8080")
	t.Setenv("BRASA_DASHBOARD_DETECTOR", "pending-count")

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-poll-interval", "5s", "-locale", "en-US"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	runtimeCfg, err := cfg.runtimeConfig()
	if err != nil {
		t.Fatalf("runtime config: %v", err)
	}
	if runtimeCfg.APIURL != "http://restaurant:8080" || runtimeCfg.PollInterval != 5*time.Second {
		t.Fatalf("runtime config = %+v", runtimeCfg)
	}
	if runtimeCfg.Detector != "pending-count" || runtimeCfg.Locale != "en-US" {
		t.Fatalf("runtime config = %+v", runtimeCfg)
	}
}

func TestRuntimeConfigRejectsBadValues(t *testing.T) {
	tests := []Config{
		{PollInterval: 0},
		{PollInterval: time.Second, Detector: "loudest"},
	}
	for _, cfg := range tests {
		if _, err := cfg.runtimeConfig(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestParseConfigStaffActions(t *testing.T) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-set-order-status", "42=preparing", "-if-match", "3"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	action, err := cfg.actionConfig()
	if err != nil {
		t.Fatalf("action config: %v", err)
	}
	if !action.Selected() || action.OrderStatus == nil {
		t.Fatalf("action = %+v", action)
	}
	if action.OrderStatus.ID != 42 || action.OrderStatus.Status != "preparing" || action.ExpectedVersion != 3 {
		t.Fatalf("order change = %+v version=%d", action.OrderStatus, action.ExpectedVersion)
	}

	fs = flag.NewFlagSet("dashboard", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-set-reservation-status", "7=cancelled"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	action, err = cfg.actionConfig()
	if err != nil {
		t.Fatalf("action config: %v", err)
	}
	if action.ReservationStatus == nil || action.ReservationStatus.ID != 7 || action.ReservationStatus.Status != "cancelled" {
		t.Fatalf("reservation change = %+v", action.ReservationStatus)
	}
}

func TestActionConfigDefaultsToPolling(t *testing.T) {
	action, err := Config{}.actionConfig()
	if err != nil {
		t.Fatalf("action config: %v", err)
	}
	if action.Selected() {
		t.Fatalf("expected no action, got %+v", action)
	}
}

func TestActionConfigRejectsBadValues(t *testing.T) {
	tests := []Config{
		{SetOrderStatus: "abc"},
		{SetReservationStatus: "5"},
		{IfMatch: 2},
		{SetReservationStatus: "5=confirmed", IfMatch: 2},
	}
	for _, cfg := range tests {
		if _, err := cfg.actionConfig(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
