// Package worker runs the sanitize/parse/normalize pipeline for one
// document at a time on an isolated goroutine. Callers submit raw bytes
// with a correlation id and receive the result on a per-request channel.
// The pool does not guard against overlapping submissions for the same
// id; callers are expected to process files sequentially.
package worker

import (
	"errors"
	"log/slog"

	"github.com/skpatro/tallystock/internal/core/domain"
	"github.com/skpatro/tallystock/internal/etl/normalize"
	"github.com/skpatro/tallystock/internal/etl/sanitize"
	"github.com/skpatro/tallystock/internal/etl/tallyxml"
)

// Request carries one raw document into the pipeline.
type Request struct {
	ID       string
	FileName string
	Raw      []byte
	FY       int
}

// Result is the outcome for one request, correlated by ID. Exactly one of
// Batch or Err is set.
type Result struct {
	ID    string
	Batch *domain.ParsedBatch
	Err   error
}

var errClosed = errors.New("worker pool closed")

type task struct {
	req   Request
	reply chan Result
}

// Pool owns the single background pipeline goroutine.
type Pool struct {
	tasks  chan task
	done   chan struct{}
	logger *slog.Logger
}

func New(logger *slog.Logger) *Pool {
	p := &Pool{
		tasks:  make(chan task),
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.run()
	return p
}

// Submit queues one document and returns the channel its result will be
// delivered on. The channel is buffered; the result is never dropped.
func (p *Pool) Submit(req Request) <-chan Result {
	reply := make(chan Result, 1)
	select {
	case p.tasks <- task{req: req, reply: reply}:
	case <-p.done:
		reply <- Result{ID: req.ID, Err: errClosed}
	}
	return reply
}

// Close stops the background goroutine. In-flight work completes; there
// is no mid-file cancellation.
func (p *Pool) Close() {
	close(p.done)
}

func (p *Pool) run() {
	for {
		select {
		case t := <-p.tasks:
			t.reply <- p.process(t.req)
		case <-p.done:
			return
		}
	}
}

func (p *Pool) process(req Request) Result {
	text, warns := sanitize.Clean(req.Raw, req.FileName)

	root, err := tallyxml.Parse(text)
	if err != nil {
		p.logger.Error("document parse failed", "file", req.FileName, "error", err)
		return Result{ID: req.ID, Err: err}
	}

	batch := normalize.Batch(root, req.FileName, req.FY)
	batch.Warnings = append(warns, batch.Warnings...)
	p.logger.Debug("document normalized",
		"file", req.FileName,
		"type", batch.FileType,
		"vouchers", len(batch.Vouchers),
		"warnings", len(batch.Warnings))
	return Result{ID: req.ID, Batch: batch}
}
