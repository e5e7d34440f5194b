package atomicassets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidName(t *testing.T) {
	for _, s := range []string{"heroes", "my.schema", "abc12345", "a", "twelvecharsx"} {
		require.True(t, IsValidName(s), s)
	}
	for _, s := range []string{"", "Heroes", "my_schema", "name6", "thirteenchars", "ends.with.", "schema!"} {
		require.False(t, IsValidName(s), s)
	}
}

func TestActionJSONRoundTrip(t *testing.T) {
	act := NewAction(ContractAssets, "creator", "active", CreateTemplate{
		AuthorizedCreator: "creator",
		CollectionName:    "heroes",
		SchemaName:        "warriors",
		Transferable:      true,
		Burnable:          true,
		MaxSupply:         100,
		ImmutableData: []AttributeValue{
			{Key: "name", Value: WireValue{Type: "string", Value: "Hero"}},
			{Key: "level", Value: WireValue{Type: "uint8", Value: uint64(3)}},
		},
	})

	data, err := json.Marshal(act)
	require.NoError(t, err)

	var back Action
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, act.Account, back.Account)
	require.Equal(t, act.Name, back.Name)
	require.Equal(t, act.Authorization, back.Authorization)

	payload, ok := back.Data.(*CreateTemplate)
	require.True(t, ok)
	require.Equal(t, "warriors", payload.SchemaName)
	require.EqualValues(t, 100, payload.MaxSupply)
	require.Len(t, payload.ImmutableData, 2)
	require.Equal(t, "name", payload.ImmutableData[0].Key)
	require.Equal(t, "string", payload.ImmutableData[0].Value.Type)
}

func TestActionUnmarshalUnknownName(t *testing.T) {
	raw := `{"account":"atomicassets","name":"bogusaction","authorization":[],"data":{}}`
	var act Action
	require.Error(t, json.Unmarshal([]byte(raw), &act))
}

func TestTransferRoundTrip(t *testing.T) {
	act := NewAction(ContractAssets, "sender", "active", Transfer{
		From:     "sender",
		To:       "receiver",
		AssetIDs: []string{"1099511627776"},
		Memo:     "airdrop",
	})
	data, err := json.Marshal(act)
	require.NoError(t, err)

	var back Action
	require.NoError(t, json.Unmarshal(data, &back))
	payload, ok := back.Data.(*Transfer)
	require.True(t, ok)
	require.Equal(t, []string{"1099511627776"}, payload.AssetIDs)
	require.Equal(t, "airdrop", payload.Memo)
}
