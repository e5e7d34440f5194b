/*
Package batcher slices compiled action lists into bounded transaction
batches, persists them and submits them strictly in order through the
signer. A batch leaves the persisted queue only after the signer confirms
its execution, which makes an interrupted run resumable without ever
replaying a confirmed batch.
*/
package batcher

import "github.com/FACINGS/collection-manager/pkg/atomicassets"

// Batch is the unit of atomic submission: the actions of one signed
// transaction.
type Batch struct {
	Actions []atomicassets.Action `json:"actions"`
}

// Sizes are the batch sizes the tool offers.
var Sizes = []int{25, 50, 100, 150, 200}

// ValidSize reports whether n is one of the offered batch sizes.
func ValidSize(n int) bool {
	for _, s := range Sizes {
		if n == s {
			return true
		}
	}
	return false
}

// Slice splits actions into ceil(len/size) batches of at most size
// actions each, preserving order. The input slice is not retained.
func Slice(actions []atomicassets.Action, size int) []Batch {
	if len(actions) == 0 || size <= 0 {
		return nil
	}
	batches := make([]Batch, 0, (len(actions)+size-1)/size)
	for start := 0; start < len(actions); start += size {
		end := start + size
		if end > len(actions) {
			end = len(actions)
		}
		b := Batch{Actions: make([]atomicassets.Action, end-start)}
		copy(b.Actions, actions[start:end])
		batches = append(batches, b)
	}
	return batches
}

// Flatten concatenates batches back into one action list, preserving
// order.
func Flatten(batches []Batch) []atomicassets.Action {
	var n int
	for _, b := range batches {
		n += len(b.Actions)
	}
	actions := make([]atomicassets.Action, 0, n)
	for _, b := range batches {
		actions = append(actions, b.Actions...)
	}
	return actions
}
