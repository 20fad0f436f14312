package server

import (
	"sync"

	"github.com/decred/slog"

	"github.com/vctt94/unoserver/pkg/uno"
)

// EventProcessor consumes room events off the gameplay path. Tables
// publish into its queue without blocking; workers fan each event out
// to the ledger, lobby and stats handlers.
type EventProcessor struct {
	server   *Server
	log      slog.Logger
	queue    chan uno.RoomEvent
	workers  []*eventWorker
	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// eventWorker processes events from the queue
type eventWorker struct {
	id        int
	processor *EventProcessor
	stopChan  chan struct{}
	wg        *sync.WaitGroup
}

// NewEventProcessor creates a new event processor
func NewEventProcessor(server *Server, queueSize, workerCount int) *EventProcessor {
	processor := &EventProcessor{
		server:   server,
		log:      server.log,
		queue:    make(chan uno.RoomEvent, queueSize),
		stopChan: make(chan struct{}),
	}

	processor.workers = make([]*eventWorker, workerCount)
	for i := 0; i < workerCount; i++ {
		processor.workers[i] = &eventWorker{
			id:        i,
			processor: processor,
			stopChan:  make(chan struct{}),
			wg:        &processor.wg,
		}
	}

	return processor
}

// Queue exposes the send side of the event queue so tables can be
// wired to it. Publishing is the tables' non-blocking concern; a full
// queue drops events rather than stalling gameplay.
func (ep *EventProcessor) Queue() chan<- uno.RoomEvent {
	return ep.queue
}

// Start begins processing events
func (ep *EventProcessor) Start() {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if ep.started {
		return
	}

	ep.started = true
	ep.log.Infof("Starting event processor with %d workers", len(ep.workers))

	for _, worker := range ep.workers {
		ep.wg.Add(1)
		go worker.run()
	}
}

// Stop gracefully stops the event processor
func (ep *EventProcessor) Stop() {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if !ep.started {
		return
	}

	ep.log.Infof("Stopping event processor...")

	close(ep.stopChan)
	for _, worker := range ep.workers {
		close(worker.stopChan)
	}
	ep.wg.Wait()

	// Workers are gone; anything still buffered is processed here so a
	// round that finished just before shutdown keeps its ledger row.
	for {
		select {
		case event := <-ep.queue:
			ep.processEvent(event)
		default:
			ep.started = false
			ep.log.Infof("Event processor stopped")
			return
		}
	}
}

// processEvent runs a single event through every registered handler
func (ep *EventProcessor) processEvent(event uno.RoomEvent) {
	NewLedgerHandler(ep.server).HandleEvent(event)
	NewLobbyHandler(ep.server).HandleEvent(event)
	NewStatsHandler(ep.server).HandleEvent(event)
}

// run executes the worker loop
func (w *eventWorker) run() {
	defer w.wg.Done()
	w.processor.log.Debugf("Event worker %d started", w.id)

	for {
		select {
		case <-w.stopChan:
			w.processor.log.Debugf("Event worker %d stopping", w.id)
			return

		case <-w.processor.stopChan:
			w.processor.log.Debugf("Event worker %d stopping (processor shutdown)", w.id)
			return

		case event := <-w.processor.queue:
			w.processor.log.Debugf("Worker %d processing %s for room %d", w.id, event.Type, event.RoomID)
			w.processor.processEvent(event)
		}
	}
}
