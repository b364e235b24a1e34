package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/JSH-Team/unpack/internal/config"
	"github.com/JSH-Team/unpack/internal/extract"
	"github.com/JSH-Team/unpack/internal/progress"
	"github.com/JSH-Team/unpack/internal/utils/logger"
)

var (
	// ErrUnexpectedCompletion is returned for a report about a unit that is not in flight.
	ErrUnexpectedCompletion = errors.New("unexpected completion")

	// ErrFailFast is returned when the fail-fast policy stopped the run.
	ErrFailFast = errors.New("run stopped after failed writes")
)

// Dispatcher runs units and reports each one exactly once on Completions.
type Dispatcher interface {
	Submit(ctx context.Context, unit extract.ExtractionUnit) error
	Completions() <-chan extract.Completion
}

// UnitFailure records a unit whose write failed.
type UnitFailure struct {
	Unit extract.ExtractionUnit
	Err  error
}

// Summary aggregates the outcome of all reported units.
type Summary struct {
	Batches    int
	Dispatched int
	Succeeded  int
	Skipped    int
	Failed     int
	Bytes      int64
	Failures   []UnitFailure
}

// Scheduler drives one wave per batch: every unit of a batch is dispatched,
// and the next batch starts only once all of them have reported.
type Scheduler struct {
	batches []extract.Batch
	sink    progress.Sink
	policy  config.FailurePolicy

	state          State
	batchIndex     int
	pendingInBatch int
	inFlight       map[int]struct{}
	summary        Summary
}

func New(batches []extract.Batch, sink progress.Sink, policy config.FailurePolicy) *Scheduler {
	return &Scheduler{
		batches:  batches,
		sink:     sink,
		policy:   policy,
		state:    StateIdle,
		inFlight: make(map[int]struct{}),
		summary:  Summary{Batches: len(batches)},
	}
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	return s.state
}

// BatchIndex returns the index of the running batch.
func (s *Scheduler) BatchIndex() int {
	return s.batchIndex
}

// Pending returns how many units of the running batch have not reported yet.
func (s *Scheduler) Pending() int {
	return s.pendingInBatch
}

// Summary returns a copy of the counters collected so far.
func (s *Scheduler) Summary() Summary {
	out := s.summary
	out.Failures = append([]UnitFailure(nil), s.summary.Failures...)
	return out
}

// Run dispatches every batch through d and returns when the scheduler is Done
// or Aborted. Units already dispatched when ctx is cancelled are not waited for.
func (s *Scheduler) Run(ctx context.Context, d Dispatcher) (Summary, error) {
	if s.state != StateIdle {
		return s.Summary(), fmt.Errorf("scheduler already started (state %s)", s.state)
	}

	wave := s.begin()
	for s.state == StateRunning {
		logger.Debug("Dispatching batch %d/%d (%d files)", s.batchIndex+1, len(s.batches), len(wave))

		for _, unit := range wave {
			if err := d.Submit(ctx, unit); err != nil {
				s.Report(extract.Completion{Unit: unit, Err: fmt.Errorf("dispatch failed: %w", err)})
			}
		}

		for s.pendingInBatch > 0 {
			select {
			case c := <-d.Completions():
				if err := s.Report(c); err != nil {
					logger.Error("%v", err)
				}
			case <-ctx.Done():
				s.state = StateAborted
				return s.Summary(), ctx.Err()
			}
		}

		wave = s.advance()
	}

	if s.state == StateAborted {
		return s.Summary(), fmt.Errorf("%w: %d of %d dispatched files failed", ErrFailFast, s.summary.Failed, s.summary.Dispatched)
	}
	return s.Summary(), nil
}

// begin leaves Idle and returns the first wave, or moves to Done when there
// are no batches.
func (s *Scheduler) begin() []extract.ExtractionUnit {
	if len(s.batches) == 0 {
		s.state = StateDone
		return nil
	}
	return s.enter(0)
}

// enter moves to Running(i) and marks the batch's units as in flight.
func (s *Scheduler) enter(i int) []extract.ExtractionUnit {
	s.state = StateRunning
	s.batchIndex = i
	wave := s.batches[i].Units
	s.pendingInBatch = len(wave)
	for _, u := range wave {
		s.inFlight[u.Seq] = struct{}{}
	}
	s.summary.Dispatched += len(wave)
	return wave
}

// Report records one unit's completion. Successful units advance the sink.
func (s *Scheduler) Report(c extract.Completion) error {
	if s.state != StateRunning {
		return fmt.Errorf("%w: unit %d reported while %s", ErrUnexpectedCompletion, c.Unit.Seq, s.state)
	}
	if _, ok := s.inFlight[c.Unit.Seq]; !ok {
		return fmt.Errorf("%w: unit %d is not in flight in batch %d", ErrUnexpectedCompletion, c.Unit.Seq, s.batchIndex)
	}
	delete(s.inFlight, c.Unit.Seq)
	s.pendingInBatch--

	if c.Err != nil {
		s.summary.Failed++
		s.summary.Failures = append(s.summary.Failures, UnitFailure{Unit: c.Unit, Err: c.Err})
		logger.Error("Failed to extract %s: %v", c.Unit.Source, c.Err)
		return nil
	}

	s.summary.Bytes += c.Bytes
	if c.Skipped {
		s.summary.Skipped++
	} else {
		s.summary.Succeeded++
	}
	s.sink.Advance()
	return nil
}

// advance is called once the running batch has drained. It returns the next
// wave, or nil after moving to Done or Aborted.
func (s *Scheduler) advance() []extract.ExtractionUnit {
	if s.pendingInBatch != 0 {
		return nil
	}
	if s.policy == config.FailFast && s.summary.Failed > 0 {
		s.state = StateAborted
		return nil
	}
	if s.batchIndex+1 >= len(s.batches) {
		s.state = StateDone
		return nil
	}
	return s.enter(s.batchIndex + 1)
}
