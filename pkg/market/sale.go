/*
Package market compiles AtomicMarket sale actions. Announcing a sale is a
two-step dance per asset: announcesale on the market contract followed by
a createoffer handing the asset over to it.
*/
package market

import (
	"github.com/FACINGS/collection-manager/pkg/atomicassets"
)

func init() {
	atomicassets.RegisterPayload("announcesale", func() atomicassets.ActionData { return new(AnnounceSale) })
	atomicassets.RegisterPayload("cancelsale", func() atomicassets.ActionData { return new(CancelSale) })
}

// AnnounceSale is the payload of atomicmarket::announcesale.
type AnnounceSale struct {
	Seller           string   `json:"seller"`
	AssetIDs         []string `json:"asset_ids"`
	ListingPrice     string   `json:"listing_price"`
	SettlementSymbol string   `json:"settlement_symbol"`
	MakerMarketplace string   `json:"maker_marketplace"`
}

// ActionName implements the atomicassets.ActionData interface.
func (AnnounceSale) ActionName() string { return "announcesale" }

// CancelSale is the payload of atomicmarket::cancelsale.
type CancelSale struct {
	SaleID string `json:"sale_id"`
}

// ActionName implements the atomicassets.ActionData interface.
func (CancelSale) ActionName() string { return "cancelsale" }

// SaleSpec describes a listing shared by a set of assets.
type SaleSpec struct {
	Seller     string
	Permission string
	// ListingPrice is an Antelope asset string, e.g. "10.00000000 WAX".
	ListingPrice string
	// SettlementSymbol pairs precision and code, e.g. "8,WAX".
	SettlementSymbol string
	MakerMarketplace string
}

// CompileAnnounce emits the announcesale/createoffer pair for every
// asset, one sale per asset. Pair ordering matters, the offer refers to
// the announced sale.
func CompileAnnounce(assetIDs []string, spec SaleSpec) []atomicassets.Action {
	actions := make([]atomicassets.Action, 0, 2*len(assetIDs))
	for _, id := range assetIDs {
		actions = append(actions,
			atomicassets.NewAction(atomicassets.ContractMarket, spec.Seller, spec.Permission, AnnounceSale{
				Seller:           spec.Seller,
				AssetIDs:         []string{id},
				ListingPrice:     spec.ListingPrice,
				SettlementSymbol: spec.SettlementSymbol,
				MakerMarketplace: spec.MakerMarketplace,
			}),
			atomicassets.NewAction(atomicassets.ContractAssets, spec.Seller, spec.Permission, atomicassets.CreateOffer{
				Sender:            spec.Seller,
				Recipient:         atomicassets.ContractMarket,
				SenderAssetIDs:    []string{id},
				RecipientAssetIDs: []string{},
				Memo:              "sale",
			}),
		)
	}
	return actions
}

// CompileCancel emits one cancelsale per sale ID.
func CompileCancel(seller, permission string, saleIDs []string) []atomicassets.Action {
	actions := make([]atomicassets.Action, 0, len(saleIDs))
	for _, id := range saleIDs {
		actions = append(actions, atomicassets.NewAction(atomicassets.ContractMarket, seller, permission, CancelSale{
			SaleID: id,
		}))
	}
	return actions
}
