package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mikehipps/simple-dfs/internal/pipeline"
	"github.com/mikehipps/simple-dfs/pkg/config"
	"github.com/mikehipps/simple-dfs/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	cfg.LineupCSV = resolvePath(cfg.LineupCSV, "Lineup CSV")
	cfg.ProjectionsCSV = resolvePath(cfg.ProjectionsCSV, "Projections CSV")

	if err := pipeline.Run(cfg); err != nil {
		logger.GetLogger().WithError(err).Error("Picker run failed")
		os.Exit(1)
	}
}

// resolvePath validates a CSV path, prompting on stdin until an existing
// file is supplied.
func resolvePath(path, label string) string {
	reader := bufio.NewReader(os.Stdin)
	for {
		if path != "" {
			if _, err := os.Stat(path); err == nil {
				return path
			}
			fmt.Fprintf(os.Stderr, "%s not found at %s.\n", label, path)
		}
		fmt.Fprintf(os.Stderr, "%s path: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Fprintln(os.Stderr, "No file provided; aborting.")
			os.Exit(2)
		}
		path = strings.TrimSpace(line)
	}
}
