package unpacker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JSH-Team/unpack/internal/config"
	"github.com/JSH-Team/unpack/internal/extract"
	"github.com/JSH-Team/unpack/internal/progress"
	"github.com/JSH-Team/unpack/internal/scheduler"
	"github.com/JSH-Team/unpack/internal/sourcemap"
	"github.com/JSH-Team/unpack/internal/storage"
	"github.com/JSH-Team/unpack/internal/utils/filesystem"
	"github.com/JSH-Team/unpack/internal/utils/logger"
	urlutils "github.com/JSH-Team/unpack/internal/utils/url"
	"github.com/JSH-Team/unpack/internal/workers/writer"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrProjectExists = errors.New("project folder already exists")
	ErrMapNotFound   = errors.New("can't find map file")
)

// Phase is the lifecycle position of a Run.
type Phase string

const (
	PhasePlanned    Phase = "planned"
	PhaseInProgress Phase = "in-progress"
	PhaseCompleted  Phase = "completed"
	PhaseAborted    Phase = "aborted"
)

// Options describe one invocation.
type Options struct {
	Cwd            string
	ProjectName    string
	MapLocation    string
	PoolCapacity   int
	FailurePolicy  config.FailurePolicy
	MissingContent config.MissingContentPolicy
}

// Run is a single extraction from one sourcemap into one project directory.
type Run struct {
	ID      string
	Options Options

	ProjectDir string
	Phase      Phase
	Sources    int
	Summary    scheduler.Summary
	Started    time.Time
	Finished   time.Time

	fs     afero.Fs
	reader storage.MapReader
	sink   func(total int) progress.Sink
	pool   *writer.WriterWorkerPool
}

// New prepares a run. newSink builds the progress sink once the number of
// sources is known.
func New(fs afero.Fs, reader storage.MapReader, opts Options, newSink func(total int) progress.Sink) *Run {
	if opts.PoolCapacity < 1 {
		opts.PoolCapacity = 1
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = config.BestEffort
	}
	if opts.MissingContent == "" {
		opts.MissingContent = config.MissingContentEmpty
	}
	if reader.Fs == nil {
		reader.Fs = fs
	}
	if newSink == nil {
		newSink = func(int) progress.Sink { return &progress.Counter{} }
	}

	return &Run{
		ID:         uuid.NewString(),
		Options:    opts,
		ProjectDir: filesystem.ResolveBase(opts.Cwd, opts.ProjectName),
		Phase:      PhasePlanned,
		fs:         fs,
		reader:     reader,
		sink:       newSink,
	}
}

// CheckPreconditions fails when the project directory already exists or a
// local map file is missing. Nothing is written before these checks pass.
func (r *Run) CheckPreconditions() error {
	exists, err := filesystem.Exists(r.fs, r.ProjectDir)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w at: %s", ErrProjectExists, r.ProjectDir)
	}

	location := r.Options.MapLocation
	if urlutils.IsRemote(location) || urlutils.IsDataURI(location) {
		return nil
	}

	mapPath := filesystem.ResolveBase(r.Options.Cwd, location)
	exists, err = filesystem.Exists(r.fs, mapPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w under: %s", ErrMapNotFound, mapPath)
	}
	return nil
}

// Plan loads and validates the sourcemap and splits it into batches.
func (r *Run) Plan(ctx context.Context) ([]extract.Batch, error) {
	content, err := r.reader.ReadSourceMap(ctx, r.Options.Cwd, r.Options.MapLocation)
	if err != nil {
		return nil, err
	}

	set, err := sourcemap.Parse(content)
	if err != nil {
		return nil, err
	}
	r.Sources = set.Len()
	if file := set.File(); file != "" {
		logger.Debug("Loaded sourcemap for %s", file)
	}

	units := extract.NewUnits(r.Options.Cwd, r.Options.ProjectName, set)
	return extract.PlanBatches(units, r.Options.PoolCapacity), nil
}

// Execute checks preconditions, plans, and drives the scheduler to completion.
func (r *Run) Execute(ctx context.Context) error {
	if r.Phase != PhasePlanned {
		return fmt.Errorf("run %s already %s", r.ID, r.Phase)
	}
	r.Started = time.Now()
	defer func() { r.Finished = time.Now() }()

	if err := r.CheckPreconditions(); err != nil {
		r.Phase = PhaseAborted
		return err
	}

	batches, err := r.Plan(ctx)
	if err != nil {
		r.Phase = PhaseAborted
		return err
	}

	r.Phase = PhaseInProgress

	pool := writer.NewWriterWorkerPool(r.fs, r.Options.PoolCapacity, r.Options.MissingContent)
	r.pool = pool
	logger.Debug("Run %s: %d sources in %d batches, %d writers", r.ID, r.Sources, len(batches), pool.Capacity())
	if err := pool.Start(); err != nil {
		r.Phase = PhaseAborted
		return err
	}

	sink := r.sink(r.Sources)
	s := scheduler.New(batches, sink, r.Options.FailurePolicy)
	summary, runErr := s.Run(ctx, pool)
	sink.Finish()
	r.Summary = summary

	// Every dispatched unit has reported unless the wave was cancelled, in
	// which case a worker may still be writing.
	if runErr == nil || errors.Is(runErr, scheduler.ErrFailFast) {
		if err := pool.Stop(); err != nil {
			logger.Warn("Failed to stop writer pool: %v", err)
		}
	} else {
		pool.Abort()
	}

	if runErr != nil {
		r.Phase = PhaseAborted
		return runErr
	}

	r.Phase = PhaseCompleted
	return nil
}

// Duration returns how long Execute ran.
func (r *Run) Duration() time.Duration {
	if r.Started.IsZero() || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
