package wallet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/transport"
)

func coins(balances ...uint64) []transport.Coin {
	out := make([]transport.Coin, len(balances))
	for i, b := range balances {
		out[i] = transport.Coin{CoinObjectID: string(rune('a' + i)), Balance: transport.Uint64(b)}
	}
	return out
}

func ids(cs []transport.Coin) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.CoinObjectID
	}
	return out
}

func TestFirstFitSelector(t *testing.T) {
	sel := FirstFitSelector{}

	got, total, err := sel.Select(coins(10, 50, 30), 40)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(got))
	assert.Equal(t, uint64(50), total)

	got, total, err = sel.Select(coins(10, 20, 30), 45)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
	assert.Equal(t, uint64(60), total)
}

func TestGreedySelector(t *testing.T) {
	got, total, err := GreedySelector{}.Select(coins(10, 20, 30), 45)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(got))
	assert.Equal(t, uint64(50), total)
}

func TestSelectorErrors(t *testing.T) {
	for _, sel := range []CoinSelector{FirstFitSelector{}, GreedySelector{}} {
		_, _, err := sel.Select(nil, 1)
		assert.ErrorIs(t, err, ErrNoGasCoins)

		_, _, err = sel.Select(coins(1, 2), 10)
		assert.ErrorIs(t, err, ErrInsufficientGas)
	}
}

func TestAccumulateSaturates(t *testing.T) {
	got, total, err := GreedySelector{}.Select(coins(math.MaxUint64, 5), math.MaxUint64)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(math.MaxUint64), total)
}

func TestGasTargetIncludesSplitFromGas(t *testing.T) {
	b := builder.NewBundle().SetGasBudget(1_000)
	assert.Equal(t, uint64(1_000), GasTarget(b))

	pay := b.SplitCoins(builder.GasCoin(), b.PureU64(700), b.PureU64(300))
	b.TransferObjects([]builder.Argument{pay}, b.PureAddress("0x1"))
	assert.Equal(t, uint64(1_000), GasCoinSpend(b))
	assert.Equal(t, uint64(2_000), GasTarget(b))

	b.SetGasBudget(math.MaxUint64)
	assert.Equal(t, uint64(math.MaxUint64), GasTarget(b))
}
