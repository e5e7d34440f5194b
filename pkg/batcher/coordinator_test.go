package batcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/FACINGS/collection-manager/pkg/client"
	"github.com/FACINGS/collection-manager/pkg/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeSigner confirms batches until failAt (1-based), then rejects.
type fakeSigner struct {
	calls  int
	failAt int
	sizes  []int
}

func (f *fakeSigner) Transact(_ context.Context, actions []atomicassets.Action, _ client.TransactOptions) (*client.TransactResult, error) {
	f.calls++
	if f.failAt > 0 && f.calls >= f.failAt {
		return nil, &client.TransactionError{Message: "billed CPU time is greater than the maximum"}
	}
	f.sizes = append(f.sizes, len(actions))
	return &client.TransactResult{Status: "executed", TransactionID: fmt.Sprintf("tx%d", f.calls)}, nil
}

func newCoordinatorForTesting(t *testing.T, failAt int) (*Coordinator, *Queue, *fakeSigner) {
	t.Helper()
	q := NewQueue(storage.NewMemoryStore(), "airdrop")
	signer := &fakeSigner{failAt: failAt}
	c := New(q, signer, client.DefaultTransactOptions, zaptest.NewLogger(t))
	return c, q, signer
}

func TestRunCompletes(t *testing.T) {
	c, q, signer := newCoordinatorForTesting(t, 0)
	require.NoError(t, c.Prepare("airdrop", makeActions(230), 100))
	require.Equal(t, StateBatched, c.State())

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateCompleted, c.State())
	require.Equal(t, 3, report.Submitted)
	require.Equal(t, 0, report.Remaining)
	require.Equal(t, []string{"tx1", "tx2", "tx3"}, report.TransactionIDs)
	require.Equal(t, []int{100, 100, 30}, signer.sizes)

	run, err := q.Load()
	require.NoError(t, err)
	require.Nil(t, run, "completed run leaves no queue entry")
}

func TestRunHaltsAtFailingBatch(t *testing.T) {
	c, q, _ := newCoordinatorForTesting(t, 2)
	require.NoError(t, c.Prepare("airdrop", makeActions(230), 100))

	report, err := c.Run(context.Background())
	require.Error(t, err)
	var txErr *client.TransactionError
	require.ErrorAs(t, err, &txErr)
	require.Equal(t, StateFailed, c.State())
	require.Equal(t, 1, report.Submitted)

	// Confirmed batch 1 is gone, batches 2 and 3 stay persisted.
	run, err := q.Load()
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Len(t, run.Batches, 2)
	require.Len(t, run.Batches[0].Actions, 100)
	require.Len(t, run.Batches[1].Actions, 30)
}

func TestPrepareRejectsPendingRun(t *testing.T) {
	c, _, _ := newCoordinatorForTesting(t, 1)
	require.NoError(t, c.Prepare("airdrop", makeActions(50), 25))
	_, err := c.Run(context.Background())
	require.Error(t, err)

	err = c.Prepare("airdrop", makeActions(10), 25)
	var pending *ErrPendingRun
	require.ErrorAs(t, err, &pending)
	require.Len(t, pending.Run.Batches, 2)
}

func TestResumeReslicesRemainder(t *testing.T) {
	c, q, _ := newCoordinatorForTesting(t, 2)
	require.NoError(t, c.Prepare("airdrop", makeActions(230), 100))
	_, err := c.Run(context.Background())
	require.Error(t, err)

	require.NoError(t, c.Resume(50))
	run, err := q.Load()
	require.NoError(t, err)
	require.Len(t, run.Batches, 3, "130 remaining actions at size 50")
	require.Len(t, run.Batches[2].Actions, 30)
}

func TestDiscardClearsQueue(t *testing.T) {
	c, q, _ := newCoordinatorForTesting(t, 1)
	require.NoError(t, c.Prepare("airdrop", makeActions(50), 25))
	_, err := c.Run(context.Background())
	require.Error(t, err)

	require.NoError(t, c.Discard())
	run, err := q.Load()
	require.NoError(t, err)
	require.Nil(t, run)

	require.Error(t, c.Resume(25), "nothing left to resume")
}

func TestPrepareValidations(t *testing.T) {
	c, _, _ := newCoordinatorForTesting(t, 0)
	require.Error(t, c.Prepare("airdrop", makeActions(10), 33), "unsupported batch size")
	require.Error(t, c.Prepare("airdrop", nil, 25), "empty action list")
}

func TestRunSurvivesReopen(t *testing.T) {
	// The queue is the source of truth across a restart: prepare with one
	// coordinator, submit with a fresh one on the same store.
	store := storage.NewMemoryStore()
	q := NewQueue(store, "import")
	log := zaptest.NewLogger(t)

	c1 := New(q, &fakeSigner{failAt: 1}, client.DefaultTransactOptions, log)
	require.NoError(t, c1.Prepare("import", makeActions(75), 25))
	_, err := c1.Run(context.Background())
	require.Error(t, err)

	signer := &fakeSigner{}
	c2 := New(NewQueue(store, "import"), signer, client.DefaultTransactOptions, log)
	require.NoError(t, c2.Resume(25))
	report, err := c2.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.Submitted)
	require.Equal(t, []int{25, 25, 25}, signer.sizes)
}

func TestQueueShiftEmpty(t *testing.T) {
	q := NewQueue(storage.NewMemoryStore(), "import")
	err := q.Shift()
	require.Error(t, err)
	require.False(t, errors.Is(err, storage.ErrKeyNotFound))
}
