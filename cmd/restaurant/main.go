// Package main starts the restaurant API process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	restaurantcmd "github.com/Tiago21221/brasa-e-lenha/internal/cmd/restaurant"
	entrypoint "github.com/Tiago21221/brasa-e-lenha/internal/platform/cmd"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/config"
)

func main() {
	cfg, err := restaurantcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf(entrypoint.ServiceRestaurant, "parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceRestaurant))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := restaurantcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
