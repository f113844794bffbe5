// Package main loads the restaurant menu into the local database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	seedcmd "github.com/Tiago21221/brasa-e-lenha/internal/cmd/seed"
	entrypoint "github.com/Tiago21221/brasa-e-lenha/internal/platform/cmd"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/config"
)

func main() {
	cfg, err := seedcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf(entrypoint.ServiceSeed, "parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceSeed))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedcmd.Run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
