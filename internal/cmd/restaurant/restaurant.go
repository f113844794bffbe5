// Package restaurant parses restaurant service flags and launches the service.
package restaurant

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/Tiago21221/brasa-e-lenha/internal/platform/cmd"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/config"
	server "github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/app"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
)

// Config holds restaurant command configuration.
type Config struct {
	HTTPAddr         string `env:"BRASA_RESTAURANT_HTTP_ADDR" envDefault:":8080"`
	GRPCPort         int    `env:"BRASA_RESTAURANT_GRPC_PORT" envDefault:"8081"`
	DBPath           string `env:"BRASA_RESTAURANT_DB_PATH" envDefault:"data/restaurant.db"`
	Timezone         string `env:"BRASA_TIMEZONE" envDefault:"America/Sao_Paulo"`
	OrderTransitions string `env:"BRASA_ORDER_TRANSITIONS" envDefault:"permissive"`
	WebhookSecret    string `env:"BRASA_PAYMENT_WEBHOOK_SECRET"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address for the restaurant API")
	fs.IntVar(&cfg.GRPCPort, "grpc-port", cfg.GRPCPort, "The restaurant gRPC health server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA timezone deciding calendar days for statistics")
	fs.StringVar(&cfg.OrderTransitions, "order-transitions", cfg.OrderTransitions, "Order status transition policy: permissive or forward-only")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) serverConfig() (server.Config, error) {
	loc, err := config.LoadLocation(c.Timezone)
	if err != nil {
		return server.Config{}, err
	}
	policy, err := domain.ParseTransitionPolicy(c.OrderTransitions)
	if err != nil {
		return server.Config{}, err
	}
	if c.GRPCPort <= 0 {
		return server.Config{}, fmt.Errorf("grpc port must be positive, got %d", c.GRPCPort)
	}
	return server.Config{
		HTTPAddr:         c.HTTPAddr,
		GRPCAddr:         fmt.Sprintf(":%d", c.GRPCPort),
		DBPath:           c.DBPath,
		Location:         loc,
		TransitionPolicy: policy,
		WebhookSecret:    c.WebhookSecret,
	}, nil
}

// Run starts the restaurant HTTP API and gRPC health service.
func Run(ctx context.Context, cfg Config) error {
	serverCfg, err := cfg.serverConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRestaurant, func(ctx context.Context) error {
		return server.Run(ctx, serverCfg)
	})
}

