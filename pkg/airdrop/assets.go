package airdrop

import (
	"context"

	"github.com/FACINGS/collection-manager/pkg/client"
)

// AssetSource is the slice of the indexer API asset resolution needs.
// *client.Indexer satisfies it.
type AssetSource interface {
	AssetsByOwner(ctx context.Context, owner, collection, templateID string, page, limit int) ([]client.Asset, error)
}

// Assets resolves the distributable asset IDs held by owner, optionally
// restricted to one collection and template, deduplicated and in indexer
// order.
func Assets(ctx context.Context, src AssetSource, owner, collection, templateID string) ([]string, error) {
	var (
		ids  []string
		seen = make(map[string]bool)
	)
	for page := 1; ; page++ {
		chunk, err := src.AssetsByOwner(ctx, owner, collection, templateID, page, defaultPageLimit)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			return ids, nil
		}
		for _, a := range chunk {
			if seen[a.AssetID] {
				continue
			}
			seen[a.AssetID] = true
			ids = append(ids, a.AssetID)
		}
	}
}
