package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testActions() []atomicassets.Action {
	return []atomicassets.Action{
		atomicassets.NewAction(atomicassets.ContractAssets, "minter", "active", atomicassets.MintAsset{
			AuthorizedMinter: "minter",
			CollectionName:   "heroes",
			SchemaName:       "warriors",
			TemplateID:       42,
			NewAssetOwner:    "alice",
		}),
	}
}

func TestTransact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/signer/transact", r.URL.Path)
		var req struct {
			ChainID       string            `json:"chain_id"`
			Actions       []json.RawMessage `json:"actions"`
			BlocksBehind  int               `json:"blocks_behind"`
			ExpireSeconds int               `json:"expire_seconds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "beef", req.ChainID)
		require.Len(t, req.Actions, 1)
		require.Equal(t, 3, req.BlocksBehind)
		fmt.Fprint(w, `{"status":"executed","transaction_id":"cafebabe"}`)
	}))
	defer srv.Close()

	s, err := NewSigner(srv.URL, "beef", Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	res, err := s.Transact(context.Background(), testActions(), DefaultTransactOptions)
	require.NoError(t, err)
	require.Equal(t, "cafebabe", res.TransactionID)
}

func TestTransactRejection(t *testing.T) {
	detail := `{"error":{"what":"insufficient ram","details":[{"message":"account creator has insufficient ram"}]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, detail)
	}))
	defer srv.Close()

	s, err := NewSigner(srv.URL, "beef", Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = s.Transact(context.Background(), testActions(), DefaultTransactOptions)
	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	require.JSONEq(t, detail, string(txErr.Detail), "provider detail is preserved verbatim")
}

func TestTransactNotExecuted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"pending","transaction_id":""}`)
	}))
	defer srv.Close()

	s, err := NewSigner(srv.URL, "beef", Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = s.Transact(context.Background(), testActions(), DefaultTransactOptions)
	var txErr *TransactionError
	require.ErrorAs(t, err, &txErr)
	require.Contains(t, txErr.Message, "pending")
}

func TestRandomSeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "aB3xY9z")
	}))
	defer srv.Close()

	seed, err := RandomSeed(context.Background(), srv.URL, Options{})
	require.NoError(t, err)
	require.Equal(t, "aB3xY9z", seed)
}

func TestRandomSeedRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not a seed!")
	}))
	defer srv.Close()

	_, err := RandomSeed(context.Background(), srv.URL, Options{})
	require.Error(t, err)
}
