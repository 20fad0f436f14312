package server

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/slog"
	"github.com/pbnjay/memory"
	"github.com/prometheus/procfs"
)

// statsCollector logs a periodic health line: room and session counts,
// command throughput, goroutines and memory. Process RSS comes from
// /proc where available and reads as zero elsewhere.
type statsCollector struct {
	log    slog.Logger
	server *Server

	connections   atomic.Int64
	commands      atomic.Int64
	roomsCreated  atomic.Int64
	roundsStarted atomic.Int64
	roundsEnded   atomic.Int64

	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func newStatsCollector(log slog.Logger, server *Server) *statsCollector {
	return &statsCollector{
		log:    log,
		server: server,
		quit:   make(chan struct{}),
	}
}

func (sc *statsCollector) start(interval time.Duration) {
	sc.wg.Add(1)
	go sc.run(interval)
}

// stop is safe to call whether or not the collector was started
func (sc *statsCollector) stop() {
	sc.once.Do(func() { close(sc.quit) })
	sc.wg.Wait()
}

func (sc *statsCollector) run(interval time.Duration) {
	defer sc.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sc.quit:
			return
		case <-ticker.C:
			sc.report()
		}
	}
}

func (sc *statsCollector) report() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	sc.server.mu.RLock()
	roomCount := len(sc.server.rooms)
	sessionCount := len(sc.server.sessions)
	sc.server.mu.RUnlock()

	sc.log.Infof("Rooms: %d, sessions: %d, connections: %d, commands: %d, rounds started/ended: %d/%d",
		roomCount, sessionCount, sc.connections.Load(), sc.commands.Load(),
		sc.roundsStarted.Load(), sc.roundsEnded.Load())
	sc.log.Infof("Goroutines: %d, heap: %s, sys: %s, rss: %s, host free: %s of %s",
		runtime.NumGoroutine(), byteSize(ms.HeapAlloc), byteSize(ms.Sys),
		byteSize(sc.residentMemory()), byteSize(memory.FreeMemory()), byteSize(memory.TotalMemory()))
}

// residentMemory reads the process RSS from /proc
func (sc *statsCollector) residentMemory() uint64 {
	proc, err := procfs.Self()
	if err != nil {
		return 0
	}
	stat, err := proc.Stat()
	if err != nil {
		return 0
	}
	return uint64(stat.ResidentMemory())
}

// byteSize renders a byte count human readable
func byteSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
