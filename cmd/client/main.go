package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vctt94/unoserver/pkg/client"
	"github.com/vctt94/unoserver/pkg/ui"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func realMain() error {
	cfg := client.DefaultConfig()
	flag.StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Server address (host:port or ws:// URL)")
	flag.StringVar(&cfg.Name, "name", "", "Display name")
	flag.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "Directory for client logs")
	flag.StringVar(&cfg.DebugLevel, "debuglevel", cfg.DebugLevel, "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	cfg.Notifications = client.NewNotificationManager()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := client.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	waitCtx, waitCancel := context.WithTimeout(ctx, 10*time.Second)
	err = c.WaitForIdentity(waitCtx)
	waitCancel()
	if err != nil {
		return fmt.Errorf("no identity from server: %w", err)
	}

	program := tea.NewProgram(ui.NewModel(ctx, c), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
