package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/lightswitch/internal/probe"
	"github.com/okian/lightswitch/pkg/logger"
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:3000", "Base URL of the service")
		workers     = flag.Int("workers", probe.DefaultWorkers, "Number of concurrent downloads")
		timeout     = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		restart     = flag.Bool("restart", false, "Post a restart and wait for the service to stop")
		restartWait = flag.Duration("restart-wait", probe.DefaultRestartWait, "Upper bound on waiting for the restart")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &probe.Config{
		BaseURL:     *baseURL,
		Workers:     *workers,
		Timeout:     *timeout,
		Restart:     *restart,
		RestartWait: *restartWait,
		Verbose:     *verbose,
	}

	if _, err := probe.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
