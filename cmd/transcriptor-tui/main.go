package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/transcriptor/internal/config"
	"github.com/handiism/transcriptor/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to config file")
		notifyFlag = flag.Bool("notify", false, "Also show errors as desktop notifications")
	)
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *notifyFlag {
		settings.DesktopNotifications = true
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
