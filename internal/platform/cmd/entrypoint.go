// Package cmd is the startup path shared by the restaurant API, the staff
// dashboard and the menu seeder.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/config"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/otel"
)

// Names of the brasa processes. They label telemetry and prefix log lines.
const (
	ServiceRestaurant = "restaurant"
	ServiceDashboard  = "dashboard"
	ServiceSeed       = "seed"
)

// telemetryFlushTimeout bounds the final span export after a command returns.
const telemetryFlushTimeout = 5 * time.Second

// ParseConfig fills cfg from BRASA_* variables and their envDefault tags.
// Flags registered afterwards use these values as their defaults.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs applies command-line flags over the environment values.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// LogPrefix returns "[RESTAURANT] " style prefixes so interleaved output
// from the API and the dashboard stays readable.
func LogPrefix(service string) string {
	service = strings.TrimSpace(service)
	if service == "" {
		return ""
	}
	return "[" + strings.ToUpper(service) + "] "
}

// RunWithTelemetry installs the tracer provider for service, runs the
// command and flushes spans once it returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return fmt.Errorf("service name is required")
	case run == nil:
		return fmt.Errorf("%s run function is required", service)
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s telemetry flush: %v", service, err)
		}
	}()
	return run(ctx)
}
