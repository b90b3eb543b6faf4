package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/cfhelper/internal/client/cli"
	"github.com/iudanet/cfhelper/internal/client/iocli"
	"github.com/iudanet/cfhelper/internal/config"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Конфигурация из окружения, флаги переопределяют ее в cli
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	version := cli.VersionInfo{Version: Version, BuildDate: BuildDate, GitCommit: GitCommit}
	err = cli.Execute(ctx, cfg, iocli.NewStdio(), cli.OpenFactory(os.Stderr), version, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
