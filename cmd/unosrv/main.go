package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vctt94/bisonbotkit/logging"

	"github.com/vctt94/unoserver/pkg/server"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func realMain() error {
	var (
		confPath      string
		host          string
		port          int
		portFile      string
		dataDir       string
		dbPath        string
		seed          int64
		debugLevel    string
		statsInterval string
	)
	flag.StringVar(&confPath, "conf", "", "Path to TOML config file (optional)")
	flag.StringVar(&host, "host", "", "Host to listen on")
	flag.IntVar(&port, "port", -1, "Port to listen on (0 for random free port)")
	flag.StringVar(&portFile, "portfile", "", "If set, write selected port to this file")
	flag.StringVar(&dataDir, "datadir", "", "Directory for logs and the results ledger")
	flag.StringVar(&dbPath, "db", "", "Path to SQLite ledger file (created if missing)")
	flag.Int64Var(&seed, "seed", 0, "Deterministic RNG seed for decks (0 = random)")
	flag.StringVar(&debugLevel, "debuglevel", "", "Logging level: trace, debug, info, warn, error")
	flag.StringVar(&statsInterval, "statsinterval", "", "Interval between stats log lines (0 disables)")
	flag.Parse()

	cfg, err := server.LoadConfig(confPath)
	if err != nil {
		return err
	}

	// Flags override config file values
	if host != "" {
		cfg.Host = host
	}
	if port >= 0 {
		cfg.Port = port
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
		cfg.DBPath = filepath.Join(dataDir, "uno.sqlite")
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if debugLevel != "" {
		cfg.DebugLevel = debugLevel
	}
	if statsInterval != "" {
		d, err := time.ParseDuration(statsInterval)
		if err != nil {
			return fmt.Errorf("invalid statsinterval: %w", err)
		}
		cfg.StatsInterval = d
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("failed to create datadir: %w", err)
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:     filepath.Join(cfg.DataDir, "logs", "unosrv.log"),
		DebugLevel:  cfg.DebugLevel,
		MaxLogFiles: 5,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logBackend.Logger("MAIN")

	db, err := server.NewDatabase(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer db.Close()

	srv := server.NewServer(cfg, db, logBackend)
	defer srv.Stop()

	lis, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr(), err)
	}

	if portFile != "" {
		_, p, _ := net.SplitHostPort(lis.Addr().String())
		if err := os.WriteFile(portFile, []byte(p), 0600); err != nil {
			return fmt.Errorf("failed to write portfile: %w", err)
		}
	}

	httpSrv := &http.Server{Handler: srv.Handler()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(lis)
	}()
	log.Infof("Listening on %s", lis.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("Received %v, shutting down", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Warnf("HTTP shutdown: %v", err)
	}
	return nil
}
