package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/epalmerini/busmon/internal/config"
	"github.com/epalmerini/busmon/internal/logging"
	"github.com/epalmerini/busmon/internal/track"
	"github.com/epalmerini/busmon/internal/tui"
	"github.com/epalmerini/busmon/internal/xdg"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "Show version")
	url := flag.String("url", "", "Backend base URL (overrides config and BUSMON_URL)")
	profile := flag.String("profile", "", "Named backend profile from config.toml")
	provider := flag.String("provider", "", "Broker provider: azure or aws")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	listProfiles := flag.Bool("profiles", false, "List configured profiles")
	history := flag.Int64("history", 0, "Print the N most recent observed messages and exit")
	search := flag.String("search", "", "Filter -history output by sender, destination, or body")
	flag.Parse()

	if *showVersion {
		fmt.Printf("busmon %s\n", version)
		return
	}

	configDir, err := xdg.Dir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving config directory: %v\n", err)
		os.Exit(1)
	}

	fileCfg, err := config.LoadFileConfig(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *listProfiles {
		names := fileCfg.ProfileNames()
		if len(names) == 0 {
			fmt.Println("No profiles configured")
			return
		}
		fmt.Println(strings.Join(names, "\n"))
		return
	}

	cfg := fileCfg.Resolve(*profile, configDir)
	if *url != "" {
		cfg.BaseURL = *url
	}
	if *provider != "" {
		cfg.Provider = *provider
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if *history > 0 {
		if err := printHistory(cfg.DBPath, *history, *search); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	stateDir, err := xdg.Dir("XDG_STATE_HOME", ".local/state")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving state directory: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(stateDir, cfg.LogLevel)

	if err := tui.Run(cfg, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printHistory dumps recent rows from the local observation log.
func printHistory(dbPath string, limit int64, query string) error {
	store, err := track.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var observations []track.Observation
	if query != "" {
		observations, err = store.Search(ctx, query, limit)
	} else {
		observations, err = store.ListRecent(ctx, limit)
	}
	if err != nil {
		return err
	}

	if len(observations) == 0 {
		fmt.Println("No observations recorded")
		return nil
	}

	for _, o := range observations {
		disposition := o.Disposition
		if disposition == "" {
			disposition = "-"
		}
		fmt.Printf("%s  %-11s %-24s %-16s %s\n",
			o.ObservedAt.Format("2006-01-02 15:04:05"),
			disposition, o.Destination, o.SenderID, firstLine(o.Body))
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
