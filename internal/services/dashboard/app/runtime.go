// Package app runs the staff dashboard: it waits for the restaurant service
// to report healthy, then polls the API and logs localized notifications.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/discovery"
	platformgrpc "github.com/Tiago21221/brasa-e-lenha/internal/platform/grpc"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/timeouts"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/client"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/poll"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/dashboard/render"
)

// RuntimeConfig controls dashboard startup, dependencies, and loop behavior.
type RuntimeConfig struct {
	APIURL          string
	GRPCAddr        string
	PollInterval    time.Duration
	Detector        string
	Locale          string
	GRPCDialTimeout time.Duration
	// Logf defaults to log.Printf.
	Logf func(string, ...any)
}

// Run dials the restaurant health service and polls until ctx is done.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg.APIURL = discovery.OrDefaultHTTPBaseURL(cfg.APIURL, discovery.ServiceRestaurant)
	cfg.GRPCAddr = discovery.OrDefaultGRPCAddr(cfg.GRPCAddr, discovery.ServiceRestaurant)
	if cfg.GRPCDialTimeout <= 0 {
		cfg.GRPCDialTimeout = timeouts.GRPCDial
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}

	detector, err := poll.ParseDetector(cfg.Detector)
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg.Locale)
	if err != nil {
		return err
	}
	apiClient, err := client.New(cfg.APIURL, nil)
	if err != nil {
		return err
	}

	conn, err := platformgrpc.DialWithHealth(ctx, cfg.GRPCAddr, platformgrpc.DialConfig{
		Timeout: cfg.GRPCDialTimeout,
		Service: discovery.ServiceRestaurant,
		Logf:    cfg.Logf,
	})
	if err != nil {
		return fmt.Errorf("dial restaurant service: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			cfg.Logf("close restaurant connection: %v", closeErr)
		}
	}()

	poller, err := poll.New(apiClient, poll.Config{
		Interval: cfg.PollInterval,
		Detector: detector,
		Notifier: render.LogNotifier{Renderer: renderer, Logf: cfg.Logf},
		Logf:     cfg.Logf,
	})
	if err != nil {
		return err
	}

	cfg.Logf("dashboard polling %s every %s locale=%s", cfg.APIURL, pollInterval(cfg.PollInterval), renderer.Language())
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func pollInterval(value time.Duration) time.Duration {
	if value <= 0 {
		return poll.DefaultInterval
	}
	return value
}
