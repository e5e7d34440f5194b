package airdrop

import (
	"hash/fnv"
	"math/rand"
)

// Shuffle returns a copy of accounts in an order fully determined by the
// seed: the same seed and input always produce the same output, which
// keeps the drop ordering auditable. The input slice is never mutated, a
// re-randomization with a fresh seed starts from the original order.
func Shuffle(accounts []string, seed string) []string {
	out := make([]string, len(accounts))
	copy(out, accounts)

	h := fnv.New64a()
	h.Write([]byte(seed))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
