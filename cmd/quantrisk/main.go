package main

import (
	"fmt"
	"os"

	"quantrisk/internal/cli"
	"quantrisk/internal/config"
	"quantrisk/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(logging.LogConfig{
		Level:    cfg.Logging.Level,
		Console:  cfg.Logging.Console,
		File:     cfg.Logging.File,
		FilePath: cfg.Logging.FilePath,
		MaxSize:  100,
	})

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
