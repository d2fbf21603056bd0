package main

import (
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// setupLog sends log output to the file named by LAOSHI_LOGFILE, or discards
// it. The returned closer runs after the program exits.
func setupLog() (func() error, error) {
	if logFile := os.Getenv("LAOSHI_LOGFILE"); logFile != "" {
		f, err := tea.LogToFile(logFile, "laoshi")
		if err != nil {
			return nil, fmt.Errorf("error setting up log: %w", err)
		}
		log.SetOutput(f)
		log.SetTimeFormat(time.Kitchen)
		log.SetReportTimestamp(true)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
