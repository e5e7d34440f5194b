package batcher

import (
	"context"
	"fmt"
	"time"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/FACINGS/collection-manager/pkg/client"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State of a coordinator run.
type State int

// Coordinator states. Transitions: Idle → Batched → Submitting →
// Completed, or Submitting → Failed with the remainder persisted.
// There is no separate compiled state: Prepare slices and persists the
// action list in one step, so a compiled-but-unbatched run can never be
// observed.
const (
	StateIdle State = iota
	StateBatched
	StateSubmitting
	StateCompleted
	StateFailed
)

// String implements the Stringer interface.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBatched:
		return "batched"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Submitter signs and broadcasts one transaction and reports its
// confirmed execution. *client.Signer satisfies it.
type Submitter interface {
	Transact(ctx context.Context, actions []atomicassets.Action, opts client.TransactOptions) (*client.TransactResult, error)
}

// Coordinator drives one batched submission run. Batches are submitted
// strictly in order, one at a time, awaiting each confirmation before
// advancing; actions across batches may depend on earlier ones having
// executed.
type Coordinator struct {
	queue  *Queue
	signer Submitter
	opts   client.TransactOptions
	log    *zap.Logger
	state  State
}

// New creates a Coordinator submitting through the given signer.
func New(queue *Queue, signer Submitter, opts client.TransactOptions, log *zap.Logger) *Coordinator {
	return &Coordinator{
		queue:  queue,
		signer: signer,
		opts:   opts,
		log:    log,
		state:  StateIdle,
	}
}

// State returns the current run state.
func (c *Coordinator) State() State {
	return c.state
}

// ErrPendingRun is returned by Prepare when an earlier run still has
// unsubmitted batches. The caller must resolve it through Resume or
// Discard first, actions carry irreversible effects and silent replay is
// unacceptable.
type ErrPendingRun struct {
	Run *Run
}

// Error implements the error interface.
func (e *ErrPendingRun) Error() string {
	return fmt.Sprintf("run %s still has %d pending batches, resume or discard it first",
		e.Run.RunID, len(e.Run.Batches))
}

// Prepare slices the action list and persists the batches before any
// submission happens, making the run crash-safe from this point on.
func (c *Coordinator) Prepare(tool string, actions []atomicassets.Action, size int) error {
	if !ValidSize(size) {
		return fmt.Errorf("batch size %d not supported, pick one of %v", size, Sizes)
	}
	if len(actions) == 0 {
		return fmt.Errorf("nothing to submit")
	}
	prev, err := c.queue.Load()
	if err != nil {
		return err
	}
	if prev != nil && len(prev.Batches) > 0 {
		return &ErrPendingRun{Run: prev}
	}
	run := &Run{
		RunID:   uuid.NewString(),
		Tool:    tool,
		Created: time.Now().UTC(),
		Batches: Slice(actions, size),
	}
	if err := c.queue.Save(run); err != nil {
		return err
	}
	c.state = StateBatched
	c.log.Info("run prepared",
		zap.String("run", run.RunID),
		zap.String("tool", tool),
		zap.Int("actions", len(actions)),
		zap.Int("batches", len(run.Batches)))
	return nil
}

// Resume re-slices the remaining batches of an interrupted run into a new
// run with the given batch size. It is the only sanctioned way to pick an
// interrupted run back up.
func (c *Coordinator) Resume(size int) error {
	if !ValidSize(size) {
		return fmt.Errorf("batch size %d not supported, pick one of %v", size, Sizes)
	}
	run, err := c.queue.Load()
	if err != nil {
		return err
	}
	if run == nil || len(run.Batches) == 0 {
		return fmt.Errorf("no pending run to resume")
	}
	run.Batches = Slice(Flatten(run.Batches), size)
	if err := c.queue.Save(run); err != nil {
		return err
	}
	c.state = StateBatched
	c.log.Info("run resumed",
		zap.String("run", run.RunID),
		zap.Int("batches", len(run.Batches)))
	return nil
}

// Discard drops an interrupted run.
func (c *Coordinator) Discard() error {
	c.state = StateIdle
	return c.queue.Clear()
}

// Pending returns the persisted run, nil when the queue is empty.
func (c *Coordinator) Pending() (*Run, error) {
	return c.queue.Load()
}

// Report summarizes a completed or halted run.
type Report struct {
	Submitted      int
	Remaining      int
	TransactionIDs []string
}

// Run submits the persisted batches sequentially. On the first failure it
// halts: confirmed batches are gone from the queue, the failing batch and
// everything after it stay persisted for a resumed run.
func (c *Coordinator) Run(ctx context.Context) (*Report, error) {
	run, err := c.queue.Load()
	if err != nil {
		return &Report{}, err
	}
	if run == nil || len(run.Batches) == 0 {
		return &Report{}, fmt.Errorf("no batches to submit")
	}

	c.state = StateSubmitting
	report := &Report{Remaining: len(run.Batches)}
	total := len(run.Batches)
	for i, batch := range run.Batches {
		if err := ctx.Err(); err != nil {
			c.state = StateFailed
			return report, fmt.Errorf("submission interrupted: %w", err)
		}
		res, err := c.signer.Transact(ctx, batch.Actions, c.opts)
		if err != nil {
			c.state = StateFailed
			batchesFailed.Inc()
			c.log.Error("batch failed, halting run",
				zap.String("run", run.RunID),
				zap.Int("batch", i+1),
				zap.Int("of", total),
				zap.Error(err))
			return report, fmt.Errorf("batch %d/%d: %w", i+1, total, err)
		}
		// The batch leaves the queue only now that it is confirmed.
		if err := c.queue.Shift(); err != nil {
			c.state = StateFailed
			return report, fmt.Errorf("confirmed batch could not be removed from the queue: %w", err)
		}
		report.Submitted++
		report.Remaining--
		report.TransactionIDs = append(report.TransactionIDs, res.TransactionID)
		batchesSubmitted.Inc()
		actionsSubmitted.Add(float64(len(batch.Actions)))
		c.log.Info("batch confirmed",
			zap.String("run", run.RunID),
			zap.Int("batch", i+1),
			zap.Int("of", total),
			zap.String("txid", res.TransactionID))
	}
	c.state = StateCompleted
	return report, nil
}
