package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAccountsByCollectionPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/atomicassets/v1/accounts", r.URL.Path)
		require.Equal(t, "heroes", r.URL.Query().Get("collection_name"))
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"success":true,"data":[{"account":"alice","assets":"3"},{"account":"bob","assets":"1"}]}`)
		default:
			fmt.Fprint(w, `{"success":true,"data":[]}`)
		}
	}))
	defer srv.Close()

	c, err := NewIndexer(srv.URL, Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	page, err := c.AccountsByCollection(context.Background(), "heroes", 1, 100)
	require.NoError(t, err)
	require.Equal(t, []AccountCount{{Account: "alice", Assets: 3}, {Account: "bob", Assets: 1}}, page)

	page, err = c.AccountsByCollection(context.Background(), "heroes", 2, 100)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestIndexerEndpointPathPrefix(t *testing.T) {
	// An indexer behind a reverse proxy keeps its path prefix.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/atomicassets/v1/accounts", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":[]}`)
	}))
	defer srv.Close()

	c, err := NewIndexer(srv.URL+"/api/", Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	page, err := c.AccountsByCollection(context.Background(), "heroes", 1, 100)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestIndexerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"success":false,"message":"rate limited"}`)
	}))
	defer srv.Close()

	c, err := NewIndexer(srv.URL, Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = c.AccountsByTemplate(context.Background(), "heroes", "42", 1, 100)
	require.Error(t, err)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	require.Contains(t, resErr.Error(), "rate limited")
}

func TestAssetsByOwner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/atomicassets/v1/assets", r.URL.Path)
		require.Equal(t, "alice", r.URL.Query().Get("owner"))
		require.Equal(t, "42", r.URL.Query().Get("template_id"))
		fmt.Fprint(w, `{"success":true,"data":[{"asset_id":"1099511627776","owner":"alice","template":{"template_id":"42"}}]}`)
	}))
	defer srv.Close()

	c, err := NewIndexer(srv.URL, Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assets, err := c.AssetsByOwner(context.Background(), "alice", "heroes", "42", 1, 100)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	require.Equal(t, "1099511627776", assets[0].AssetID)
	require.Equal(t, "42", assets[0].Template.TemplateID)
}
