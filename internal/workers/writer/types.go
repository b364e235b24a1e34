package writer

import (
	"context"
	"sync"

	"github.com/JSH-Team/unpack/internal/config"
	"github.com/JSH-Team/unpack/internal/extract"

	"github.com/spf13/afero"
)

// WriteJob represents one extraction unit handed to a write worker
type WriteJob struct {
	Unit extract.ExtractionUnit
}

// WriterWorkerPool manages a pool of workers that materialize extraction units
type WriterWorkerPool struct {
	workers        int
	fs             afero.Fs
	missingContent config.MissingContentPolicy
	jobQueue       chan WriteJob
	results        chan extract.Completion
	workerWg       sync.WaitGroup
	ctx            context.Context
	cancel         context.CancelFunc
	isRunning      bool
	mu             sync.RWMutex
}
