/*
Package client contains thin HTTP clients for the services the tool
depends on: the AtomicAssets indexing API, the wallet signer daemon and
the randomness service used for airdrop shuffle seeds.
*/
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 15 * time.Second
)

// Options defines options for the HTTP clients. All values are optional.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
}

func newHTTPClient(opts Options) *http.Client {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
		},
		Timeout: opts.RequestTimeout,
	}
}

// ResolutionError is reported when an indexer lookup fails. It aborts the
// current filter operation but never corrupts persisted queue state.
type ResolutionError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution against %s failed: %v", e.Endpoint, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *ResolutionError) Unwrap() error { return e.Err }

// Indexer is a client of the AtomicAssets indexing API. It is read-only
// and safe for concurrent use.
type Indexer struct {
	endpoint *url.URL
	cli      *http.Client
	log      *zap.Logger
}

// NewIndexer returns an Indexer bound to the given endpoint.
func NewIndexer(endpoint string, opts Options, log *zap.Logger) (*Indexer, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid indexer endpoint: %w", err)
	}
	return &Indexer{endpoint: u, cli: newHTTPClient(opts), log: log}, nil
}

// apiResponse is the envelope every indexer endpoint wraps its data in.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Indexer) get(ctx context.Context, path string, params url.Values, out any) error {
	u := *c.endpoint
	// The configured endpoint may carry a path prefix of its own.
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &ResolutionError{Endpoint: path, Err: err}
	}
	resp, err := c.cli.Do(req)
	if err != nil {
		return &ResolutionError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &ResolutionError{Endpoint: path, Err: err}
	}
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = resp.Status
		}
		return &ResolutionError{Endpoint: path, Err: fmt.Errorf("indexer rejected request: %s", msg)}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &ResolutionError{Endpoint: path, Err: err}
	}
	c.log.Debug("indexer query", zap.String("path", path), zap.String("params", params.Encode()))
	return nil
}

// AccountCount is one row of an accounts query: the account and how many
// qualifying assets it holds.
type AccountCount struct {
	Account string `json:"account"`
	Assets  int64  `json:"assets,string"`
}

// AccountsByCollection returns one page of accounts holding assets of the
// collection. Pages are 1-based, an empty page terminates pagination.
func (c *Indexer) AccountsByCollection(ctx context.Context, collection string, page, limit int) ([]AccountCount, error) {
	params := url.Values{}
	params.Set("collection_name", collection)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	var out []AccountCount
	if err := c.get(ctx, "/atomicassets/v1/accounts", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AccountsByTemplate returns one page of accounts holding assets of the
// given template.
func (c *Indexer) AccountsByTemplate(ctx context.Context, collection, templateID string, page, limit int) ([]AccountCount, error) {
	params := url.Values{}
	params.Set("collection_name", collection)
	params.Set("template_id", templateID)
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	var out []AccountCount
	if err := c.get(ctx, "/atomicassets/v1/accounts", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Asset is the subset of indexer asset data the tool needs.
type Asset struct {
	AssetID    string `json:"asset_id"`
	Owner      string `json:"owner"`
	Collection struct {
		CollectionName string `json:"collection_name"`
	} `json:"collection"`
	Template struct {
		TemplateID string `json:"template_id"`
	} `json:"template"`
}

// AssetsByOwner returns one page of assets held by owner, optionally
// restricted to one collection and template.
func (c *Indexer) AssetsByOwner(ctx context.Context, owner, collection, templateID string, page, limit int) ([]Asset, error) {
	params := url.Values{}
	params.Set("owner", owner)
	if collection != "" {
		params.Set("collection_name", collection)
	}
	if templateID != "" {
		params.Set("template_id", templateID)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	var out []Asset
	if err := c.get(ctx, "/atomicassets/v1/assets", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Collection is the indexer's view of an on-chain collection.
type Collection struct {
	CollectionName string `json:"collection_name"`
	Author         string `json:"author"`
}

// Collection looks a collection up by name.
func (c *Indexer) Collection(ctx context.Context, name string) (*Collection, error) {
	var out Collection
	if err := c.get(ctx, "/atomicassets/v1/collections/"+name, url.Values{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Schema is the indexer's view of an on-chain schema.
type Schema struct {
	SchemaName string `json:"schema_name"`
	Format     []struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"format"`
}

// Schema looks a schema up within a collection.
func (c *Indexer) Schema(ctx context.Context, collection, name string) (*Schema, error) {
	var out Schema
	if err := c.get(ctx, "/atomicassets/v1/schemas/"+collection+"/"+name, url.Values{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Template is the indexer's view of an on-chain template.
type Template struct {
	TemplateID string `json:"template_id"`
	MaxSupply  string `json:"max_supply"`
	Schema     struct {
		SchemaName string `json:"schema_name"`
	} `json:"schema"`
}

// Template looks a template up within a collection.
func (c *Indexer) Template(ctx context.Context, collection, templateID string) (*Template, error) {
	var out Template
	if err := c.get(ctx, "/atomicassets/v1/templates/"+collection+"/"+templateID, url.Values{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
