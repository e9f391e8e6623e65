package main

import (
	"context"
	"flag"
	"fmt"
	"invoicer/internal/cli/commands"
	"invoicer/internal/config"
	"os"
	"os/signal"
	"syscall"
)

// Set via -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfg := config.NewConfig()

	if cfg.Version {
		fmt.Fprintf(commands.Out, "Invoice CLI (invctl)\nVersion: %s\nBuild date: %s\nServer: %s\n",
			version, buildDate, cfg.ServerURL)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if code := commands.Dispatch(ctx, cfg, flag.Args()); code != commands.ExitOK {
		cancel()
		os.Exit(code)
	}
}
