// Package dashboard parses staff dashboard flags and launches the poller or
// a one-shot staff action.
package dashboard

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/Tiago21221/brasa-e-lenha/internal/platform/cmd"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/app"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/poll"
)

// Config holds dashboard command configuration.
type Config struct {
	APIURL       string        `env:"BRASA_DASHBOARD_API_URL"`
	GRPCAddr     string        `env:"BRASA_DASHBOARD_GRPC_ADDR"`
	PollInterval time.Duration `env:"BRASA_DASHBOARD_POLL_INTERVAL" envDefault:"10s"`
	Detector     string        `env:"BRASA_DASHBOARD_DETECTOR" envDefault:"newest-id"`
	Locale       string        `env:"BRASA_DASHBOARD_LOCALE" envDefault:"pt-BR"`
	DialTimeout  time.Duration `env:"BRASA_DASHBOARD_DIAL_TIMEOUT" envDefault:"2s"`

	// Staff actions are flag-only.
	SetOrderStatus       string
	IfMatch              int64
	SetReservationStatus string
	PlaceOrder           string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "Restaurant API base URL")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "Restaurant gRPC health address")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Refresh interval")
	fs.StringVar(&cfg.Detector, "detector", cfg.Detector, "New order detector: newest-id or pending-count")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Notification locale: pt-BR or en-US")
	fs.StringVar(&cfg.SetOrderStatus, "set-order-status", "", "Move an order and exit, as id=status")
	fs.Int64Var(&cfg.IfMatch, "if-match", 0, "Expected order version for -set-order-status")
	fs.StringVar(&cfg.SetReservationStatus, "set-reservation-status", "", "Confirm or cancel a reservation and exit, as id=status")
	fs.StringVar(&cfg.PlaceOrder, "place-order", "", "Place the order described by a YAML file and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) runtimeConfig() (app.RuntimeConfig, error) {
	if c.PollInterval <= 0 {
		return app.RuntimeConfig{}, fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if _, err := poll.ParseDetector(c.Detector); err != nil {
		return app.RuntimeConfig{}, err
	}
	return app.RuntimeConfig{
		APIURL:          c.APIURL,
		GRPCAddr:        c.GRPCAddr,
		PollInterval:    c.PollInterval,
		Detector:        c.Detector,
		Locale:          c.Locale,
		GRPCDialTimeout: c.DialTimeout,
	}, nil
}

func (c Config) actionConfig() (app.ActionConfig, error) {
	action := app.ActionConfig{
		APIURL:          c.APIURL,
		ExpectedVersion: c.IfMatch,
		OrderFile:       strings.TrimSpace(c.PlaceOrder),
	}
	if strings.TrimSpace(c.SetOrderStatus) != "" {
		change, err := app.ParseStatusChange(c.SetOrderStatus)
		if err != nil {
			return app.ActionConfig{}, err
		}
		action.OrderStatus = &change
	}
	if strings.TrimSpace(c.SetReservationStatus) != "" {
		change, err := app.ParseStatusChange(c.SetReservationStatus)
		if err != nil {
			return app.ActionConfig{}, err
		}
		action.ReservationStatus = &change
	}
	if c.IfMatch != 0 && action.OrderStatus == nil {
		return app.ActionConfig{}, fmt.Errorf("-if-match requires -set-order-status")
	}
	return action, nil
}

// Run performs the requested staff action, or starts the dashboard poller
// when none was given.
func Run(ctx context.Context, cfg Config) error {
	action, err := cfg.actionConfig()
	if err != nil {
		return err
	}
	if action.Selected() {
		return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, func(ctx context.Context) error {
			return app.RunAction(ctx, action)
		})
	}
	runtimeCfg, err := cfg.runtimeConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, func(ctx context.Context) error {
		return app.Run(ctx, runtimeCfg)
	})
}
