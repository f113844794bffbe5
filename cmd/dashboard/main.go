// Package main starts the staff dashboard poller or runs one staff action.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	dashboardcmd "github.com/Tiago21221/brasa-e-lenha/internal/cmd/dashboard"
	entrypoint "github.com/Tiago21221/brasa-e-lenha/internal/platform/cmd"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/config"
)

func main() {
	cfg, err := dashboardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf(entrypoint.ServiceDashboard, "parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceDashboard))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dashboardcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("dashboard stopped: %v", err)
	}
}
