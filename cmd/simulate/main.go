package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	simulatecmd "github.com/sgb-io/back-of-the-neural-net/internal/cmd/simulate"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/config"
)

func main() {
	cfg, err := simulatecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Misconfigf("parse flags: %v", err)
	}
	log.SetPrefix("[SIMULATE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simulatecmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to simulate: %v", err)
	}
}
