package batcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/FACINGS/collection-manager/pkg/storage"
)

// Queue is the persisted pending-batch queue of one tool. It is the sole
// source of truth for work remaining across a restart.
type Queue struct {
	store storage.Store
	key   []byte
}

// Run is the persisted state of one submission run.
type Run struct {
	RunID   string    `json:"run_id"`
	Tool    string    `json:"tool"`
	Created time.Time `json:"created"`
	Batches []Batch   `json:"batches"`
}

// NewQueue binds a queue to the store under a per-tool key, so the
// import, airdrop and sale tools never see each other's pending work.
func NewQueue(store storage.Store, tool string) *Queue {
	return &Queue{store: store, key: []byte("pending:" + tool)}
}

// Load reads the persisted run. A missing key yields a nil run and no
// error.
func (q *Queue) Load() (*Run, error) {
	data, err := q.store.Get(q.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run := new(Run)
	if err := json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("corrupted pending queue: %w", err)
	}
	return run, nil
}

// Save persists the run, replacing whatever was stored before.
func (q *Queue) Save(run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return q.store.Put(q.key, data)
}

// Shift removes the first batch of the persisted run. It is called once
// per confirmed batch, the last confirmation clears the key entirely.
func (q *Queue) Shift() error {
	run, err := q.Load()
	if err != nil {
		return err
	}
	if run == nil || len(run.Batches) == 0 {
		return errors.New("pending queue is empty")
	}
	run.Batches = run.Batches[1:]
	if len(run.Batches) == 0 {
		return q.Clear()
	}
	return q.Save(run)
}

// Clear drops the persisted run.
func (q *Queue) Clear() error {
	return q.store.Delete(q.key)
}
