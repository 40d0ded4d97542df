package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"patient-records/cmd/patient-records/cmd"
)

var (
	Version string = "dev"
)

func main() {
	// register sigterm so headless commands can cancel their store calls
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()

	if err := cmd.NewRoot(ctx, Version).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
