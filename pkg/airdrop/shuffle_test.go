package airdrop

import (
	"fmt"
	"testing"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/stretchr/testify/require"
)

func TestShuffleDeterminism(t *testing.T) {
	accounts := make([]string, 100)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("account%d", i)
	}

	first := Shuffle(accounts, "aB3xY9z")
	second := Shuffle(accounts, "aB3xY9z")
	require.Equal(t, first, second, "same seed, same order")

	other := Shuffle(accounts, "different")
	require.NotEqual(t, first, other, "a fresh seed re-randomizes")
	require.ElementsMatch(t, accounts, other)
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	accounts := []string{"a", "b", "c", "d", "e"}
	original := append([]string(nil), accounts...)
	_ = Shuffle(accounts, "seed")
	require.Equal(t, original, accounts)
}

func TestCompileMint(t *testing.T) {
	actions := CompileMint([]string{"alice", "bob"}, MintSpec{
		Minter:     "minter",
		Permission: "active",
		Collection: "heroes",
		Schema:     "warriors",
		TemplateID: 42,
	})
	require.Len(t, actions, 2)
	for i, to := range []string{"alice", "bob"} {
		require.Equal(t, "mintasset", actions[i].Name)
		mint := actions[i].Data.(atomicassets.MintAsset)
		require.Equal(t, to, mint.NewAssetOwner)
		require.EqualValues(t, 42, mint.TemplateID)
	}
}

func TestCompileTransferMismatch(t *testing.T) {
	actions, unmatched := CompileTransfer("sender", "active",
		[]string{"alice", "bob", "carol"},
		[]string{"101", "102"},
		"airdrop")
	require.Len(t, actions, 2)
	require.Equal(t, 1, unmatched, "third recipient is dropped with a warning")

	first := actions[0].Data.(atomicassets.Transfer)
	require.Equal(t, "alice", first.To)
	require.Equal(t, []string{"101"}, first.AssetIDs)

	second := actions[1].Data.(atomicassets.Transfer)
	require.Equal(t, "bob", second.To)
	require.Equal(t, []string{"102"}, second.AssetIDs)
}

func TestCompileTransferExactMatch(t *testing.T) {
	actions, unmatched := CompileTransfer("sender", "active",
		[]string{"alice"}, []string{"101"}, "")
	require.Len(t, actions, 1)
	require.Zero(t, unmatched)
}
