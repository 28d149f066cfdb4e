package main

import (
	"fmt"
	"os"
	"strings"

	"mission-control/internal/cli"
	"mission-control/internal/config"
	"mission-control/internal/logging"
)

// configDirFromArgs pre-scans the arguments for the --config flag so the
// configuration can be loaded before cobra parses anything. Both the
// "--config dir" and "--config=dir" forms are recognized.
func configDirFromArgs(args []string) string {
	configDir := ""
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			configDir = args[i+1]
		case strings.HasPrefix(arg, "--config="):
			configDir = strings.TrimPrefix(arg, "--config=")
		}
	}
	return configDir
}

func main() {
	cfg, err := config.Load(configDirFromArgs(os.Args))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
