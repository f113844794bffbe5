package restaurant

import (
	"flag"
	"testing"

	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("restaurant", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GRPCPort != 8081 {
		t.Fatalf("unexpected addresses: %q %d", cfg.HTTPAddr, cfg.GRPCPort)
	}
	if cfg.DBPath != "data/restaurant.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.Timezone != "America/Sao_Paulo" || cfg.OrderTransitions != "permissive" {
		t.Fatalf("timezone = %q transitions = %q", cfg.Timezone, cfg.OrderTransitions)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("BRASA_RESTAURANT_DB_PATH", "env.db")
	t.Setenv("BRASA_PAYMENT_WEBHOOK_SECRET", "whsec")

	fs := flag.NewFlagSet("restaurant", flag.ContinueOnError)
	args := []string{"-grpc-port", "9001", "-order-transitions", "forward-only"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCPort != 9001 || cfg.DBPath != "env.db" || cfg.WebhookSecret != "whsec" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	serverCfg, err := cfg.serverConfig()
	if err != nil {
		t.Fatalf("server config: %v", err)
	}
	if _, ok := serverCfg.TransitionPolicy.(domain.ForwardOnlyTransitions); !ok {
		t.Fatalf("policy = %T", serverCfg.TransitionPolicy)
	}
	if serverCfg.GRPCAddr != ":9001" || serverCfg.Location.String() != "America/Sao_Paulo" {
		t.Fatalf("server config = %+v", serverCfg)
	}
}

func TestServerConfigRejectsBadValues(t *testing.T) {
	tests := []Config{
		{Timezone: "Mars/Olympus", GRPCPort: 1},
		{Timezone: "UTC", OrderTransitions: "chaotic", GRPCPort: 1},
		{Timezone: "UTC", GRPCPort: 0},
	}
	for _, cfg := range tests {
		if _, err := cfg.serverConfig(); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}
