// Package worker provides an asynchronous worker pool for persisting finished
// translations to a storage.Driver and publishing them to an event stream.
//
// The pool keeps storage and publishing off the HTTP hot path so a slow
// database or broker never delays a translation response.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/papercomputeco/lingo/pkg/eventstream"
	"github.com/papercomputeco/lingo/pkg/logger"
	"github.com/papercomputeco/lingo/pkg/storage"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	Record storage.Record

	// Surface is the entry point the translation came through ("api", "mcp").
	Surface string

	Path       string
	HTTPStatus int
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting records.
	Driver storage.Driver

	// Publisher is the optional event stream publisher.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	Logger *slog.Logger
}

// Pool processes storage jobs asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan Job
	wg     sync.WaitGroup
	logger *slog.Logger

	// mu guards closed so Enqueue never sends on a closed queue.
	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, fmt.Errorf("storage driver is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the job being dropped
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("job not queued, pool closed", "id", job.Record.ID)
		return false
	}

	select {
	case p.queue <- job:
		p.logger.Debug("job queued",
			"id", job.Record.ID,
			"provider", job.Record.Provider,
		)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped",
			"id", job.Record.ID,
			"provider", job.Record.Provider,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// Call this during graceful shutdown after the API server has stopped.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("worker stopped", "worker_id", id)
}

// processJob stores the record and, if configured, publishes the event.
// A failed store skips publishing.
func (p *Pool) processJob(job Job) {
	ctx := context.Background()

	if err := p.config.Driver.Put(ctx, &job.Record); err != nil {
		p.logger.Error("storing translation failed",
			"id", job.Record.ID,
			"provider", job.Record.Provider,
			"error", err,
		)
		return
	}

	p.logger.Info("translation stored",
		"id", job.Record.ID,
		"provider", job.Record.Provider,
		"status", job.Record.Status,
	)

	if p.config.Publisher == nil {
		return
	}

	event := eventstream.NewTranslationCompletedEvent(
		job.Record,
		eventstream.EventSource{Surface: job.Surface, Provider: job.Record.Provider},
		eventstream.TranslationRequest{Path: job.Path, Streaming: job.Record.Streaming, HTTPStatus: job.HTTPStatus},
	)
	if err := p.config.Publisher.PublishTranslation(ctx, event); err != nil {
		p.logger.Warn("publishing translation event failed",
			"id", job.Record.ID,
			"error", err,
		)
	}
}
