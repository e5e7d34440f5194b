package market

import (
	"encoding/json"
	"testing"

	"github.com/FACINGS/collection-manager/pkg/atomicassets"
	"github.com/stretchr/testify/require"
)

func TestCompileAnnounce(t *testing.T) {
	actions := CompileAnnounce([]string{"101", "102"}, SaleSpec{
		Seller:           "alice",
		Permission:       "active",
		ListingPrice:     "10.00000000 WAX",
		SettlementSymbol: "8,WAX",
	})
	require.Len(t, actions, 4)

	require.Equal(t, "announcesale", actions[0].Name)
	require.Equal(t, atomicassets.ContractMarket, actions[0].Account)
	sale := actions[0].Data.(AnnounceSale)
	require.Equal(t, []string{"101"}, sale.AssetIDs)
	require.Equal(t, "10.00000000 WAX", sale.ListingPrice)

	require.Equal(t, "createoffer", actions[1].Name)
	require.Equal(t, atomicassets.ContractAssets, actions[1].Account)
	offer := actions[1].Data.(atomicassets.CreateOffer)
	require.Equal(t, atomicassets.ContractMarket, offer.Recipient)
	require.Equal(t, []string{"101"}, offer.SenderAssetIDs)

	require.Equal(t, "announcesale", actions[2].Name)
	require.Equal(t, []string{"102"}, actions[2].Data.(AnnounceSale).AssetIDs)
}

func TestCompileCancel(t *testing.T) {
	actions := CompileCancel("alice", "active", []string{"555"})
	require.Len(t, actions, 1)
	require.Equal(t, "cancelsale", actions[0].Name)
	require.Equal(t, "555", actions[0].Data.(CancelSale).SaleID)
}

func TestSalePayloadRoundTrip(t *testing.T) {
	actions := CompileAnnounce([]string{"101"}, SaleSpec{Seller: "alice", Permission: "active", ListingPrice: "1.0 WAX", SettlementSymbol: "8,WAX"})
	data, err := json.Marshal(actions[0])
	require.NoError(t, err)

	var back atomicassets.Action
	require.NoError(t, json.Unmarshal(data, &back))
	sale, ok := back.Data.(*AnnounceSale)
	require.True(t, ok)
	require.Equal(t, "alice", sale.Seller)
}
