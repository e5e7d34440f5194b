/*
Package airdrop resolves recipient sets from holder filters and compiles
them into mint or transfer action lists.
*/
package airdrop

import (
	"context"
	"fmt"

	"github.com/FACINGS/collection-manager/pkg/client"
	"go.uber.org/zap"
)

// Mode selects how the recipient set is derived.
type Mode int

// Filter modes.
const (
	// ByCollection targets every account holding assets of a collection.
	ByCollection Mode = iota
	// ByTemplate targets every account holding assets of one template.
	ByTemplate
	// ByNotHoldingTemplate targets collection holders that do not hold
	// the given template.
	ByNotHoldingTemplate
)

// Filter describes one recipient query.
type Filter struct {
	Mode       Mode
	Collection string
	TemplateID string
	// MinHoldingQuantity keeps only accounts holding at least this many
	// qualifying assets.
	MinHoldingQuantity int64
	// UniqueAccountsOnly lists each account once. When false an account
	// holding N qualifying assets appears N times and receives N drops,
	// weighting the distribution by holding count.
	UniqueAccountsOnly bool
}

// AccountSource is the slice of the indexer API account resolution needs.
// *client.Indexer satisfies it.
type AccountSource interface {
	AccountsByCollection(ctx context.Context, collection string, page, limit int) ([]client.AccountCount, error)
	AccountsByTemplate(ctx context.Context, collection, templateID string, page, limit int) ([]client.AccountCount, error)
}

// defaultPageLimit matches the indexer's maximum page size.
const defaultPageLimit = 1000

// Resolver turns filters into recipient lists.
type Resolver struct {
	src   AccountSource
	limit int
	log   *zap.Logger
}

// NewResolver creates a Resolver reading from src.
func NewResolver(src AccountSource, log *zap.Logger) *Resolver {
	return &Resolver{src: src, limit: defaultPageLimit, log: log}
}

// Accounts resolves the filter into an ordered recipient list.
func (r *Resolver) Accounts(ctx context.Context, f Filter) ([]string, error) {
	switch f.Mode {
	case ByCollection:
		holders, err := r.collectAll(ctx, func(page int) ([]client.AccountCount, error) {
			return r.src.AccountsByCollection(ctx, f.Collection, page, r.limit)
		})
		if err != nil {
			return nil, err
		}
		return expand(holders, f), nil
	case ByTemplate:
		holders, err := r.collectAll(ctx, func(page int) ([]client.AccountCount, error) {
			return r.src.AccountsByTemplate(ctx, f.Collection, f.TemplateID, page, r.limit)
		})
		if err != nil {
			return nil, err
		}
		return expand(holders, f), nil
	case ByNotHoldingTemplate:
		return r.notHolding(ctx, f)
	}
	return nil, fmt.Errorf("unknown filter mode %d", f.Mode)
}

// collectAll pages through an accounts endpoint until an empty page is
// returned. The termination condition is the empty page, never a fixed
// page count, so arbitrarily large holder sets resolve completely.
func (r *Resolver) collectAll(ctx context.Context, fetch func(page int) ([]client.AccountCount, error)) ([]client.AccountCount, error) {
	var all []client.AccountCount
	for page := 1; ; page++ {
		chunk, err := fetch(page)
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			r.log.Debug("holders resolved", zap.Int("accounts", len(all)), zap.Int("pages", page-1))
			return all, nil
		}
		all = append(all, chunk...)
	}
}

// notHolding resolves the two independent account sets concurrently and
// joins them before the set difference.
func (r *Resolver) notHolding(ctx context.Context, f Filter) ([]string, error) {
	var (
		holders, excluded []client.AccountCount
		holdersErr        error
		excludedErr       error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		excluded, excludedErr = r.collectAll(ctx, func(page int) ([]client.AccountCount, error) {
			return r.src.AccountsByTemplate(ctx, f.Collection, f.TemplateID, page, r.limit)
		})
	}()
	holders, holdersErr = r.collectAll(ctx, func(page int) ([]client.AccountCount, error) {
		return r.src.AccountsByCollection(ctx, f.Collection, page, r.limit)
	})
	<-done
	if holdersErr != nil {
		return nil, holdersErr
	}
	if excludedErr != nil {
		return nil, excludedErr
	}

	drop := make(map[string]bool, len(excluded))
	for _, a := range excluded {
		drop[a.Account] = true
	}
	kept := holders[:0]
	for _, a := range holders {
		if !drop[a.Account] {
			kept = append(kept, a)
		}
	}
	return expand(kept, f), nil
}

// expand applies the holding floor and the weighting rule, preserving
// positional source order.
func expand(holders []client.AccountCount, f Filter) []string {
	out := make([]string, 0, len(holders))
	for _, h := range holders {
		if h.Assets < f.MinHoldingQuantity {
			continue
		}
		if f.UniqueAccountsOnly {
			out = append(out, h.Account)
			continue
		}
		for i := int64(0); i < h.Assets; i++ {
			out = append(out, h.Account)
		}
	}
	return out
}
