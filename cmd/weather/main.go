package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hatstand/weather/cli"
)

func main() {
	if err := cli.LoadDotEnv(".env"); err != nil {
		log.Printf("Ignoring .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr, cli.NewFetcher)
	stop()
	os.Exit(code)
}
