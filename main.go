package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/JSH-Team/unpack/cmd"
	"github.com/JSH-Team/unpack/internal/utils/logger"
)

// Version information set during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Set version information in cmd package
	cmd.SetVersion(Version, BuildTime, GitCommit)

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if !cmd.IsReported(err) {
			logger.Error("%v", err)
		}
		stop()
		os.Exit(1)
	}
}
