package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/clipforge/dubmix/internal/engine"
	"github.com/clipforge/dubmix/internal/planner"
)

// Stage identifies the phase a mix job is currently in. Stages are
// reported in order on a handle's Progress channel; gap fill is skipped
// for plans that do not need it.
type Stage string

const (
	StageQueued     Stage = "queued"
	StageGapFill    Stage = "gap-fill"
	StageMixing     Stage = "mixing"
	StageFinalizing Stage = "finalizing"
)

// ErrCanceled is the result error for jobs withdrawn or interrupted by Cancel.
var ErrCanceled = errors.New("job canceled")

// ErrClosed is returned by Submit after the scheduler has shut down.
var ErrClosed = errors.New("scheduler closed")

// Result is the terminal outcome of one mix job. A failed job reports its
// error verbatim; the partially written output file, if any, is left on
// disk for inspection.
type Result struct {
	SessionID  string
	OutputPath string
	Elapsed    time.Duration
	Err        error
}

// Handle is the caller's view of a submitted job. Progress delivers stage
// transitions; Done delivers exactly one Result and is then closed.
type Handle struct {
	sessionID string
	progress  chan Stage
	done      chan Result

	withdrawn atomic.Bool
	cancelMu  sync.Mutex
	cancel    context.CancelFunc
}

// Progress returns the stage transition channel. Sends are non-blocking,
// so a slow reader misses intermediate stages rather than stalling the job.
func (h *Handle) Progress() <-chan Stage { return h.progress }

// Done returns the result channel. It receives exactly one Result and is
// closed afterwards.
func (h *Handle) Done() <-chan Result { return h.done }

// Cancel withdraws the job. A job still in the queue never starts and
// reports ErrCanceled; a running job has its ffmpeg processes killed and
// reports the resulting error. Cancel is safe to call more than once.
func (h *Handle) Cancel() {
	h.withdrawn.Store(true)
	h.cancelMu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.cancelMu.Unlock()
}

// job pairs a plan with its handle in the worker queue.
type job struct {
	plan   *planner.MixPlan
	handle *Handle
}

// Scheduler runs mix jobs on a fixed pool of workers. Each worker owns
// one job at a time; failures are isolated to their job and never stop
// the pool.
type Scheduler struct {
	runner engine.Runner
	log    hclog.Logger

	jobs chan *job
	wg   sync.WaitGroup

	ctx      context.Context
	shutdown context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// New starts a scheduler with the given number of workers. The context
// bounds every job: cancelling it kills running ffmpeg processes and
// drains the queue as canceled.
func New(ctx context.Context, workers int, runner engine.Runner, log hclog.Logger) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Scheduler{
		runner:   runner,
		log:      log.Named("scheduler"),
		jobs:     make(chan *job, workers*2),
		ctx:      ctx,
		shutdown: cancel,
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	return s
}

// Submit queues a plan for execution and returns its handle. The plan is
// treated as immutable from this point; callers must not modify it.
func (s *Scheduler) Submit(plan *planner.MixPlan) (*Handle, error) {
	h := &Handle{
		sessionID: plan.SessionID,
		progress:  make(chan Stage, 8),
		done:      make(chan Result, 1),
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	// Queued goes on the channel before the job is visible to a worker, so
	// stage order holds even when a worker grabs the job immediately.
	h.sendStage(StageQueued)
	s.jobs <- &job{plan: plan, handle: h}
	s.mu.Unlock()

	return h, nil
}

// Close stops accepting jobs and waits for in-flight work to finish.
// Queued jobs still run; use the scheduler context to abort them.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()
	s.wg.Wait()
	s.shutdown()
}

// worker consumes jobs until the queue closes or the context ends.
func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	for j := range s.jobs {
		if j.handle.withdrawn.Load() || s.ctx.Err() != nil {
			j.handle.finish(Result{
				SessionID:  j.handle.sessionID,
				OutputPath: j.plan.OutputPath,
				Err:        ErrCanceled,
			})
			continue
		}
		s.runJob(id, j)
	}
}

// runJob executes one plan end to end and delivers its result.
func (s *Scheduler) runJob(worker int, j *job) {
	start := time.Now()
	plan, h := j.plan, j.handle

	jobCtx, cancel := context.WithCancel(s.ctx)
	h.cancelMu.Lock()
	h.cancel = cancel
	h.cancelMu.Unlock()
	defer cancel()

	// Re-check after wiring cancellation: Cancel may have raced Submit.
	if h.withdrawn.Load() {
		h.finish(Result{SessionID: h.sessionID, OutputPath: plan.OutputPath, Err: ErrCanceled})
		return
	}

	log := s.log.With("session", h.sessionID, "worker", worker, "output", plan.OutputPath)
	log.Debug("job started")

	err := s.execute(jobCtx, plan, h)
	if err != nil && jobCtx.Err() != nil && h.withdrawn.Load() {
		err = ErrCanceled
	}

	res := Result{
		SessionID:  h.sessionID,
		OutputPath: plan.OutputPath,
		Elapsed:    time.Since(start),
		Err:        err,
	}
	if err != nil {
		log.Error("job failed", "error", err)
	} else {
		log.Debug("job finished", "elapsed", res.Elapsed)
	}
	h.finish(res)
}

// execute runs the plan's ffmpeg stages. Intermediate gap-fill artifacts
// are removed on every path; a partial final output is kept on disk.
func (s *Scheduler) execute(ctx context.Context, plan *planner.MixPlan, h *Handle) error {
	videoInput := ""

	if plan.NeedsGapFill {
		h.sendStage(StageGapFill)
		defer removeAll(plan.BlackClipPath, plan.ConcatListPath, plan.ExtendedVideoPath)

		if err := s.runner.Run(ctx, engine.BlackClipArgs(plan)); err != nil {
			return fmt.Errorf("gap fill black clip: %w", err)
		}
		content := engine.ConcatListContent(plan.VideoInput.Path, plan.BlackClipPath)
		if err := os.WriteFile(plan.ConcatListPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("gap fill concat list: %w", err)
		}
		if err := s.runner.Run(ctx, engine.ConcatArgs(plan.ConcatListPath, plan.ExtendedVideoPath)); err != nil {
			return fmt.Errorf("gap fill concat: %w", err)
		}
		videoInput = plan.ExtendedVideoPath
	}

	h.sendStage(StageMixing)
	if err := s.runner.Run(ctx, engine.MixArgs(plan, videoInput, plan.OutputPath)); err != nil {
		return err
	}

	h.sendStage(StageFinalizing)
	return nil
}

// sendStage delivers a stage transition without blocking.
func (h *Handle) sendStage(st Stage) {
	select {
	case h.progress <- st:
	default:
	}
}

// finish delivers the result exactly once and closes both channels.
func (h *Handle) finish(res Result) {
	h.done <- res
	close(h.done)
	close(h.progress)
}

// removeAll deletes the given paths, ignoring empty entries and errors.
func removeAll(paths ...string) {
	for _, p := range paths {
		if p != "" {
			os.Remove(p)
		}
	}
}
