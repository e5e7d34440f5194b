package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"go.uber.org/zap"
)

// TransactOptions carry the chain-level expiration window of one signed
// transaction.
type TransactOptions struct {
	BlocksBehind  int `json:"blocks_behind"`
	ExpireSeconds int `json:"expire_seconds"`
}

// DefaultTransactOptions is suitable for interactive runs.
var DefaultTransactOptions = TransactOptions{BlocksBehind: 3, ExpireSeconds: 1200}

// TransactResult is the signer daemon's confirmation of an executed
// transaction.
type TransactResult struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// TransactionError is a signer or chain rejection. Detail preserves the
// provider's structured error payload verbatim for diagnostics.
type TransactionError struct {
	Message string
	Detail  json.RawMessage
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction rejected: %s", e.Message)
}

// Signer submits action lists to the wallet signer daemon which signs and
// broadcasts them. Key handling lives entirely in the daemon.
type Signer struct {
	endpoint *url.URL
	chainID  string
	cli      *http.Client
	log      *zap.Logger
}

// NewSigner returns a Signer bound to the given daemon endpoint.
func NewSigner(endpoint, chainID string, opts Options, log *zap.Logger) (*Signer, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid signer endpoint: %w", err)
	}
	return &Signer{endpoint: u, chainID: chainID, cli: newHTTPClient(opts), log: log}, nil
}

type transactRequest struct {
	ChainID       string                `json:"chain_id"`
	Actions       []atomicassets.Action `json:"actions"`
	BlocksBehind  int                   `json:"blocks_behind"`
	ExpireSeconds int                   `json:"expire_seconds"`
}

// Transact signs and broadcasts one transaction holding the given
// actions, waiting for the daemon's execution confirmation.
func (s *Signer) Transact(ctx context.Context, actions []atomicassets.Action, opts TransactOptions) (*TransactResult, error) {
	body, err := json.Marshal(transactRequest{
		ChainID:       s.chainID,
		Actions:       actions,
		BlocksBehind:  opts.BlocksBehind,
		ExpireSeconds: opts.ExpireSeconds,
	})
	if err != nil {
		return nil, err
	}

	u := *s.endpoint
	u.Path = strings.TrimRight(u.Path, "/") + "/v1/signer/transact"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return nil, &TransactionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransactionError{Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransactionError{
			Message: fmt.Sprintf("signer returned %s", resp.Status),
			Detail:  json.RawMessage(raw),
		}
	}

	var res TransactResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, &TransactionError{Message: "malformed signer response", Detail: json.RawMessage(raw)}
	}
	if res.Status != "executed" {
		return nil, &TransactionError{
			Message: fmt.Sprintf("transaction not executed, status %q", res.Status),
			Detail:  json.RawMessage(raw),
		}
	}
	s.log.Debug("transaction executed",
		zap.String("txid", res.TransactionID),
		zap.Int("actions", len(actions)))
	return &res, nil
}
