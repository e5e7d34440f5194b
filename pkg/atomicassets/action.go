package atomicassets

import (
	"encoding/json"
	"fmt"
)

// Contract account names the tool submits actions to.
const (
	ContractAssets = "atomicassets"
	ContractMarket = "atomicmarket"
)

// Authorization is one actor@permission pair authorizing an action.
type Authorization struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission"`
}

// ActionData is a typed action payload. Payload shapes differ per action
// name, so the wire model is a tagged union keyed by Action.Name.
type ActionData interface {
	// ActionName returns the on-chain action name the payload belongs to.
	ActionName() string
}

// Action is one ordered, immutable instruction for the chain. Ordering
// inside a transaction is significant, a schema must be created before
// templates referring to it.
type Action struct {
	Account       string          `json:"account"`
	Name          string          `json:"name"`
	Authorization []Authorization `json:"authorization"`
	Data          ActionData      `json:"data"`
}

var payloadFactories = map[string]func() ActionData{}

// RegisterPayload makes a payload type known to the action decoder. It is
// meant to be called from init functions of packages defining payloads
// for additional contracts.
func RegisterPayload(name string, f func() ActionData) {
	payloadFactories[name] = f
}

func init() {
	RegisterPayload("createschema", func() ActionData { return new(CreateSchema) })
	RegisterPayload("extendschema", func() ActionData { return new(ExtendSchema) })
	RegisterPayload("createtempl", func() ActionData { return new(CreateTemplate) })
	RegisterPayload("mintasset", func() ActionData { return new(MintAsset) })
	RegisterPayload("transfer", func() ActionData { return new(Transfer) })
	RegisterPayload("burnasset", func() ActionData { return new(BurnAsset) })
	RegisterPayload("createoffer", func() ActionData { return new(CreateOffer) })
}

// UnmarshalJSON implements json.Unmarshaler. The data field is decoded
// into the payload type registered for the action name, which lets
// persisted batches round-trip through the pending store.
func (a *Action) UnmarshalJSON(data []byte) error {
	var aux struct {
		Account       string          `json:"account"`
		Name          string          `json:"name"`
		Authorization []Authorization `json:"authorization"`
		Data          json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f, ok := payloadFactories[aux.Name]
	if !ok {
		return fmt.Errorf("unknown action name %q", aux.Name)
	}
	payload := f()
	if err := json.Unmarshal(aux.Data, payload); err != nil {
		return fmt.Errorf("bad %s payload: %w", aux.Name, err)
	}
	a.Account = aux.Account
	a.Name = aux.Name
	a.Authorization = aux.Authorization
	a.Data = payload
	return nil
}

// FormatField is one entry of an on-chain schema format, insertion order
// defines the on-chain field order.
type FormatField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// AttributeValue is one serialized key/value entry of template or asset
// data (ATTRIBUTE_MAP in the contract ABI).
type AttributeValue struct {
	Key   string    `json:"key"`
	Value WireValue `json:"value"`
}

// CreateSchema is the payload of atomicassets::createschema.
type CreateSchema struct {
	AuthorizedCreator string        `json:"authorized_creator"`
	CollectionName    string        `json:"collection_name"`
	SchemaName        string        `json:"schema_name"`
	SchemaFormat      []FormatField `json:"schema_format"`
}

// ActionName implements the ActionData interface.
func (CreateSchema) ActionName() string { return "createschema" }

// ExtendSchema is the payload of atomicassets::extendschema. Only the
// appended format fields are carried.
type ExtendSchema struct {
	AuthorizedEditor      string        `json:"authorized_editor"`
	CollectionName        string        `json:"collection_name"`
	SchemaName            string        `json:"schema_name"`
	SchemaFormatExtension []FormatField `json:"schema_format_extension"`
}

// ActionName implements the ActionData interface.
func (ExtendSchema) ActionName() string { return "extendschema" }

// CreateTemplate is the payload of atomicassets::createtempl.
type CreateTemplate struct {
	AuthorizedCreator string           `json:"authorized_creator"`
	CollectionName    string           `json:"collection_name"`
	SchemaName        string           `json:"schema_name"`
	Transferable      bool             `json:"transferable"`
	Burnable          bool             `json:"burnable"`
	MaxSupply         uint32           `json:"max_supply"`
	ImmutableData     []AttributeValue `json:"immutable_data"`
}

// ActionName implements the ActionData interface.
func (CreateTemplate) ActionName() string { return "createtempl" }

// MintAsset is the payload of atomicassets::mintasset.
type MintAsset struct {
	AuthorizedMinter string           `json:"authorized_minter"`
	CollectionName   string           `json:"collection_name"`
	SchemaName       string           `json:"schema_name"`
	TemplateID       int64            `json:"template_id"`
	NewAssetOwner    string           `json:"new_asset_owner"`
	ImmutableData    []AttributeValue `json:"immutable_data"`
	MutableData      []AttributeValue `json:"mutable_data"`
	TokensToBack     []string         `json:"tokens_to_back"`
}

// ActionName implements the ActionData interface.
func (MintAsset) ActionName() string { return "mintasset" }

// Transfer is the payload of atomicassets::transfer.
type Transfer struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	AssetIDs []string `json:"asset_ids"`
	Memo     string   `json:"memo"`
}

// ActionName implements the ActionData interface.
func (Transfer) ActionName() string { return "transfer" }

// BurnAsset is the payload of atomicassets::burnasset.
type BurnAsset struct {
	AssetOwner string `json:"asset_owner"`
	AssetID    string `json:"asset_id"`
}

// ActionName implements the ActionData interface.
func (BurnAsset) ActionName() string { return "burnasset" }

// CreateOffer is the payload of atomicassets::createoffer, used to hand
// assets over to the market contract when a sale is announced.
type CreateOffer struct {
	Sender            string   `json:"sender"`
	Recipient         string   `json:"recipient"`
	SenderAssetIDs    []string `json:"sender_asset_ids"`
	RecipientAssetIDs []string `json:"recipient_asset_ids"`
	Memo              string   `json:"memo"`
}

// ActionName implements the ActionData interface.
func (CreateOffer) ActionName() string { return "createoffer" }

// NewAction assembles the envelope for a payload with a single
// actor@permission authorization.
func NewAction(account, actor, permission string, data ActionData) Action {
	return Action{
		Account: account,
		Name:    data.ActionName(),
		Authorization: []Authorization{{
			Actor:      actor,
			Permission: permission,
		}},
		Data: data,
	}
}

func marshalPair(typ string, value any) ([]byte, error) {
	return json.Marshal([2]any{typ, value})
}

func unmarshalPair(data []byte, typ *string, value *any) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], typ); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], value)
}
