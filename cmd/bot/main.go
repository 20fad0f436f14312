package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vctt94/unoserver/pkg/bot"
)

func main() {
	if err := realMain(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func realMain() error {
	cfg := bot.DefaultConfig()
	var thinkMs int
	flag.StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Server address (host:port or ws:// URL)")
	flag.StringVar(&cfg.Name, "name", cfg.Name, "Display name")
	flag.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "Directory for bot logs")
	flag.StringVar(&cfg.DebugLevel, "debuglevel", cfg.DebugLevel, "Logging level: trace, debug, info, warn, error")
	flag.Int64Var(&cfg.GameID, "game", 0, "Room to join (0 = first open room, creating one if none)")
	flag.IntVar(&thinkMs, "thinkms", int(cfg.ThinkDelay.Milliseconds()), "Milliseconds to wait before acting on a turn")
	flag.Parse()
	cfg.ThinkDelay = time.Duration(thinkMs) * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	b, err := bot.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	return b.Run(ctx)
}
