package builder

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/config"
)

const (
	testKiosk    = "0x00000000000000000000000000000000000000000000000000000000000c1051"
	testTicket   = "0x000000000000000000000000000000000000000000000000000000000000717e"
	testActivity = "0x00000000000000000000000000000000000000000000000000000000000ac7e5"
	testOrg      = "0x0000000000000000000000000000000000000000000000000000000000000096"
	testBuyer    = "0x00000000000000000000000000000000000000000000000000000000000b0e75"
)

func purchaseRequest() PurchaseListedRequest {
	return PurchaseListedRequest{
		KioskID:            testKiosk,
		TicketID:           testTicket,
		ActivityID:         testActivity,
		OrganizerProfileID: testOrg,
		TotalCost:          1_075_000_000,
		Recipient:          testBuyer,
	}
}

func TestPurchaseListedTicketChaining(t *testing.T) {
	registry := config.DefaultRegistry()
	app := NewContracts(config.Testnet, registry).App

	b, err := app.PurchaseListedTicket(purchaseRequest())
	require.NoError(t, err)
	require.NoError(t, b.Err())
	assert.Equal(t, config.DefaultGasBudget, b.GasBudget())

	cmds := b.Commands()
	require.Len(t, cmds, 3)

	// 1. 从Gas币拆出支付币
	assert.Equal(t, CmdSplitCoins, cmds[0].Kind)
	assert.Equal(t, GasCoin(), *cmds[0].Target)
	require.Len(t, cmds[0].Arguments, 1)

	// 2. 购买调用直接引用拆分结果
	assert.Equal(t, CmdMoveCall, cmds[1].Kind)
	assert.Equal(t, registry.Target(config.Testnet, config.ModuleApp, config.FnAppPurchaseTicket), cmds[1].Function)
	require.Len(t, cmds[1].Arguments, 7)
	assert.Equal(t, Argument{Kind: ArgNestedResult, Index: 0, Nested: 0}, cmds[1].Arguments[1])

	inputs := b.Inputs()
	objectAt := func(arg Argument) string {
		require.Equal(t, ArgInput, arg.Kind)
		return inputs[arg.Index].ObjectID
	}
	assert.Equal(t, testKiosk, objectAt(cmds[1].Arguments[0]))
	assert.Equal(t, InputPure, inputs[cmds[1].Arguments[2].Index].Kind)
	assert.Equal(t, testActivity, objectAt(cmds[1].Arguments[3]))
	assert.Equal(t, testOrg, objectAt(cmds[1].Arguments[4]))
	assert.Equal(t, registry.AddressOf(config.Testnet, config.RolePlatform), objectAt(cmds[1].Arguments[5]))
	assert.Equal(t, registry.AddressOf(config.Testnet, config.RoleTransferPolicy), objectAt(cmds[1].Arguments[6]))

	// 3. 返回的币转回调用方
	assert.Equal(t, CmdTransferObjects, cmds[2].Kind)
	assert.Equal(t, []Argument{{Kind: ArgResult, Index: 1}}, cmds[2].Arguments)
}

func TestPurchaseListedTicketIsDeterministic(t *testing.T) {
	app := NewContracts(config.Testnet, config.DefaultRegistry()).App

	first, err := app.PurchaseListedTicket(purchaseRequest())
	require.NoError(t, err)
	second, err := app.PurchaseListedTicket(purchaseRequest())
	require.NoError(t, err)

	assert.Equal(t, first.Inputs(), second.Inputs())
	assert.Equal(t, first.Commands(), second.Commands())

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestBuildersReportNotDeployed(t *testing.T) {
	contracts := NewContracts(config.Mainnet, config.DefaultRegistry())

	_, err := contracts.App.PurchaseListedTicket(purchaseRequest())
	assert.ErrorIs(t, err, ErrNotDeployed)

	_, err = contracts.User.RegisterUser("alice", testBuyer)
	assert.ErrorIs(t, err, ErrNotDeployed)

	_, err = contracts.TransferPolicy.CalculateRoyaltyFee(100)
	assert.ErrorIs(t, err, ErrNotDeployed)

	// 只依赖框架函数的操作不受影响
	kiosk := contracts.App.CreateKiosk(testBuyer)
	require.NoError(t, kiosk.Err())
	assert.Len(t, kiosk.Commands(), 3)
}

func TestCreateKioskSharesKioskAndTransfersCap(t *testing.T) {
	b := NewContracts(config.Testnet, config.DefaultRegistry()).App.CreateKiosk(testBuyer)
	cmds := b.Commands()
	require.Len(t, cmds, 3)

	assert.Equal(t, config.FrameworkKioskNew, cmds[0].Function)
	assert.Equal(t, config.FrameworkPublicShare, cmds[1].Function)
	assert.Equal(t, []string{config.FrameworkKioskType}, cmds[1].TypeArguments)
	assert.Equal(t, []Argument{{Kind: ArgNestedResult, Index: 0, Nested: 0}}, cmds[1].Arguments)
	assert.Equal(t, []Argument{{Kind: ArgNestedResult, Index: 0, Nested: 1}}, cmds[2].Arguments)
}

func TestPurchaseTicketSplitsExactPrice(t *testing.T) {
	b, err := NewContracts(config.Testnet, config.DefaultRegistry()).Ticket.
		PurchaseTicket(testActivity, testOrg, 1_000_000_000, testBuyer)
	require.NoError(t, err)

	cmds := b.Commands()
	require.Len(t, cmds, 3)
	amount := b.Inputs()[cmds[0].Arguments[0].Index]
	assert.Equal(t, []byte{0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0}, amount.Bytes)
	assert.Contains(t, cmds[1].Arguments, Argument{Kind: ArgNestedResult})
	assert.Equal(t, []Argument{{Kind: ArgResult, Index: 1}}, cmds[2].Arguments)
}

func TestObjectInputsAreDeduplicated(t *testing.T) {
	b := NewBundle()
	first := b.ImmutableObject("0x6")
	second := b.Object(config.ClockObjectID)
	again := b.ImmutableObject("0x0000000000000000000000000000000000000000000000000000000000000006")

	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
	require.Len(t, b.Inputs(), 1)
	assert.True(t, b.Inputs()[0].Mutable)
}

func TestInvalidAddressSurfacesAsBundleError(t *testing.T) {
	b := NewBundle()
	b.TransferObjects([]Argument{b.Object(testTicket)}, b.PureAddress("not-an-address"))
	assert.ErrorIs(t, b.Err(), ErrInvalidArgument)
	assert.Len(t, b.Commands(), 1)
}

func TestPolicyViewsUseImmutablePolicy(t *testing.T) {
	registry := config.DefaultRegistry()
	b, err := NewContracts(config.Testnet, registry).TransferPolicy.CalculatePlatformFee(500)
	require.NoError(t, err)

	inputs := b.Inputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, registry.AddressOf(config.Testnet, config.RoleTransferPolicy), inputs[0].ObjectID)
	assert.False(t, inputs[0].Mutable)
	assert.Equal(t, InputPure, inputs[1].Kind)

	custom, err := NewContracts(config.Testnet, registry).TransferPolicy.ForPolicy("0xbeef").RoyaltyRuleConfig()
	require.NoError(t, err)
	assert.Equal(t, "0xbeef", custom.Inputs()[0].ObjectID)
}

func TestArgumentJSON(t *testing.T) {
	tests := []struct {
		arg  Argument
		want string
	}{
		{GasCoin(), `"GasCoin"`},
		{Argument{Kind: ArgInput, Index: 2}, `{"Input":2}`},
		{Argument{Kind: ArgResult, Index: 1}, `{"Result":1}`},
		{Argument{Kind: ArgResult, Index: 3}.Item(1), `{"NestedResult":[3,1]}`},
		{Argument{Kind: ArgInput, Index: 3}.Item(1), `{"Input":3}`},
	}

	for _, tt := range tests {
		got, err := json.Marshal(tt.arg)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(got), tt.arg.String())
	}
}
