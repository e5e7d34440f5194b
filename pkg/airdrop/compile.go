package airdrop

import (
	"github.com/FACINGS/collection-manager/pkg/atomicassets"
)

// MintSpec describes the template every minted drop comes from.
type MintSpec struct {
	Minter     string
	Permission string
	Collection string
	Schema     string
	TemplateID int64
	Memo       string
}

// CompileMint emits one mintasset action per recipient, all from the same
// template.
func CompileMint(recipients []string, spec MintSpec) []atomicassets.Action {
	actions := make([]atomicassets.Action, 0, len(recipients))
	for _, to := range recipients {
		actions = append(actions, atomicassets.NewAction(atomicassets.ContractAssets, spec.Minter, spec.Permission, atomicassets.MintAsset{
			AuthorizedMinter: spec.Minter,
			CollectionName:   spec.Collection,
			SchemaName:       spec.Schema,
			TemplateID:       spec.TemplateID,
			NewAssetOwner:    to,
			ImmutableData:    []atomicassets.AttributeValue{},
			MutableData:      []atomicassets.AttributeValue{},
			TokensToBack:     []string{},
		}))
	}
	return actions
}

// CompileTransfer pairs recipient[i] with assetIDs[i] positionally and
// emits one transfer action per pair. Recipients beyond the available
// assets are dropped; the count of unmatched recipients is returned so
// the caller can warn, a mismatch is not an error.
func CompileTransfer(from, permission string, recipients, assetIDs []string, memo string) ([]atomicassets.Action, int) {
	n := len(recipients)
	if len(assetIDs) < n {
		n = len(assetIDs)
	}
	actions := make([]atomicassets.Action, 0, n)
	for i := 0; i < n; i++ {
		actions = append(actions, atomicassets.NewAction(atomicassets.ContractAssets, from, permission, atomicassets.Transfer{
			From:     from,
			To:       recipients[i],
			AssetIDs: []string{assetIDs[i]},
			Memo:     memo,
		}))
	}
	return actions, len(recipients) - n
}
