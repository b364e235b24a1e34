package writer

import (
	"context"
	"fmt"

	"github.com/JSH-Team/unpack/internal/config"
	"github.com/JSH-Team/unpack/internal/extract"

	"github.com/spf13/afero"
)

// NewWriterWorkerPool creates a pool of maxWorkers writers. The job queue and
// the completion channel hold maxWorkers entries, one wave's worth.
func NewWriterWorkerPool(fs afero.Fs, maxWorkers int, missingContent config.MissingContentPolicy) *WriterWorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WriterWorkerPool{
		workers:        maxWorkers,
		fs:             fs,
		missingContent: missingContent,
		jobQueue:       make(chan WriteJob, maxWorkers),
		results:        make(chan extract.Completion, maxWorkers),
		ctx:            ctx,
		cancel:         cancel,
		isRunning:      false,
	}
}

// Start initializes and starts the writer worker pool
func (p *WriterWorkerPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("writer worker pool is already running")
	}

	// Start worker goroutines
	for i := 0; i < p.workers; i++ {
		p.workerWg.Add(1)
		go p.worker(i)
	}

	p.isRunning = true
	return nil
}

// Stop shuts the pool down and waits for in-flight jobs to report.
func (p *WriterWorkerPool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return nil
	}

	// Close job queue to prevent new jobs, then wait for workers to drain it
	close(p.jobQueue)
	p.workerWg.Wait()
	p.cancel()

	p.isRunning = false
	return nil
}

// Abort stops the pool without draining the queue. Idle workers exit at once;
// a write already in progress finishes and reports into the buffered channel.
func (p *WriterWorkerPool) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	p.cancel()
	p.isRunning = false
}

// Submit hands a unit to the pool. It blocks while the queue is full and
// fails once the pool is stopped or ctx is done.
func (p *WriterWorkerPool) Submit(ctx context.Context, unit extract.ExtractionUnit) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.isRunning {
		return fmt.Errorf("writer worker pool is not running")
	}

	select {
	case p.jobQueue <- WriteJob{Unit: unit}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return fmt.Errorf("writer worker pool is shutting down")
	}
}

// Completions delivers exactly one report per submitted unit.
func (p *WriterWorkerPool) Completions() <-chan extract.Completion {
	return p.results
}

// Capacity returns the number of workers
func (p *WriterWorkerPool) Capacity() int {
	return p.workers
}

// IsRunning returns whether the worker pool is currently running
func (p *WriterWorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isRunning
}

// worker is the main worker function that processes write jobs
func (p *WriterWorkerPool) worker(workerID int) {
	defer p.workerWg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.results <- p.processJob(workerID, job)
		}
	}
}
