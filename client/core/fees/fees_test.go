package fees

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/inspect"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/transport/transporttest"
	"github.com/suiticket/v1/internal/core/infrastructure/metrics"
	"github.com/suiticket/v1/pkg/bcs"
)

func newCalculator(t *testing.T) (*Calculator, *transporttest.Fake) {
	t.Helper()
	registry := config.DefaultRegistry()
	fake := transporttest.New()
	policy := registry.AddressOf(config.Testnet, config.RoleTransferPolicy)
	fake.AddObject(transporttest.SharedObject(policy, "0x2::transfer_policy::TransferPolicy", nil), "")
	contracts := builder.NewContracts(config.Testnet, registry)
	return NewCalculator(contracts.TransferPolicy, inspect.NewExecutor(fake, nil), nil), fake
}

func pair(bp uint16, minFee uint64) *transport.DevInspectResults {
	return transporttest.Return(
		transport.ReturnValue{Bytes: bcs.U16(bp), Type: "u16"},
		transport.ReturnValue{Bytes: bcs.U64(minFee), Type: "u64"},
	)
}

func TestFallbackFormula(t *testing.T) {
	tests := []struct {
		price, royalty, platform uint64
	}{
		{0, 0, 0},
		{39, 0, 1},
		{40, 1, 2},
		{1_000_000_000, 25_000_000, 50_000_000},
		{math.MaxUint64, 461168601842738790, 922337203685477580},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.royalty, FallbackRoyalty(tt.price), "royalty of %d", tt.price)
		assert.Equal(t, tt.platform, FallbackPlatformFee(tt.price), "platform fee of %d", tt.price)
	}

	_, err := FallbackQuote(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestQuoteFallsBackWhenRulesUnset(t *testing.T) {
	calc, _ := newCalculator(t)
	before := testutil.ToFloat64(metrics.FeeFallbacks.WithLabelValues(ComponentRoyalty))

	q, err := calc.Quote(context.Background(), "", 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, Fallback(25_000_000), q.Royalty)
	assert.Equal(t, Fallback(50_000_000), q.PlatformFee)
	assert.Equal(t, uint64(75_000_000), q.TotalFees)
	assert.Equal(t, uint64(1_075_000_000), q.TotalCost)
	assert.True(t, q.HasFallback())

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.FeeFallbacks.WithLabelValues(ComponentRoyalty)))
}

func TestQuoteMixedProvenance(t *testing.T) {
	calc, fake := newCalculator(t)
	fake.OnInspect(config.FnPolicyCalculateRoyaltyFee, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.ReturnU64(40_000_000), nil
	})

	q, err := calc.Quote(context.Background(), "", 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, Onchain(40_000_000), q.Royalty)
	assert.Equal(t, Fallback(50_000_000), q.PlatformFee)
	assert.Equal(t, q.Price+q.Royalty.Amount+q.PlatformFee.Amount, q.TotalCost)
}

func TestQuoteOnUndeployedNetwork(t *testing.T) {
	contracts := builder.NewContracts(config.Mainnet, config.DefaultRegistry())
	calc := NewCalculator(contracts.TransferPolicy, inspect.NewExecutor(transporttest.New(), nil), nil)

	q, err := calc.Quote(context.Background(), "", 200)
	require.NoError(t, err)
	assert.Equal(t, Fallback(5), q.Royalty)
	assert.Equal(t, Fallback(10), q.PlatformFee)
}

func TestPolicyConfigUnsetRules(t *testing.T) {
	calc, fake := newCalculator(t)
	fake.OnInspect(config.FnPolicyGetRoyaltyRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return pair(0, 0), nil
	})
	fake.OnInspect(config.FnPolicyGetResaleLimitRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Return(transport.ReturnValue{Bytes: bcs.U16(0), Type: "u16"}), nil
	})
	fake.OnInspect(config.FnPolicyGetPlatformFeeRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return pair(0, 0), nil
	})

	cfg := calc.PolicyConfig(context.Background(), "")
	assert.Nil(t, cfg.Royalty)
	assert.Nil(t, cfg.ResaleLimit)
	assert.Nil(t, cfg.PlatformFee)
	assert.Equal(t, PolicyView{PriceLimitBP: 10000}, cfg.View())

	_, limited := cfg.MaxResalePrice(1000)
	assert.False(t, limited)
}

func TestPolicyConfigConfiguredRules(t *testing.T) {
	calc, fake := newCalculator(t)
	fake.OnInspect(config.FnPolicyGetRoyaltyRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return pair(250, 1000), nil
	})
	fake.OnInspect(config.FnPolicyGetResaleLimitRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Return(transport.ReturnValue{Bytes: bcs.U16(15000), Type: "u16"}), nil
	})
	fake.OnInspect(config.FnPolicyGetPlatformFeeRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Abort("rule not found"), nil
	})

	cfg := calc.PolicyConfig(context.Background(), "")
	assert.Equal(t, &FeeRule{FeeBP: 250, MinFee: 1000}, cfg.Royalty)
	assert.Equal(t, &ResaleRule{PriceLimitBP: 15000}, cfg.ResaleLimit)
	assert.Nil(t, cfg.PlatformFee, "failed getter is treated as unset")

	assert.Equal(t, PolicyView{
		HasRoyaltyRule: true,
		RoyaltyFeeBP:   250,
		RoyaltyMinFee:  1000,
		HasResaleLimit: true,
		PriceLimitBP:   15000,
	}, cfg.View())

	limit, limited := cfg.MaxResalePrice(1_000_000_000)
	assert.True(t, limited)
	assert.Equal(t, uint64(1_500_000_000), limit)
}

func TestResaleLimitDistinguishesUnsetFromUnreadable(t *testing.T) {
	calc, fake := newCalculator(t)

	rule, err := calc.ResaleLimit(context.Background(), "")
	require.NoError(t, err, "an aborted getter means the rule is absent")
	assert.Nil(t, rule)

	fake.OnInspect(config.FnPolicyGetResaleLimitRuleConfig, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.Return(transport.ReturnValue{Bytes: bcs.U16(12000), Type: "u16"}), nil
	})
	rule, err = calc.ResaleLimit(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, &ResaleRule{PriceLimitBP: 12000}, rule)

	_, err = calc.ResaleLimit(context.Background(), "0x5eed")
	assert.ErrorIs(t, err, builder.ErrObjectInput)
	assert.NotErrorIs(t, err, inspect.ErrSimulationFailed)
}

func TestNewFeeRule(t *testing.T) {
	rule, err := NewFeeRule(0, 0)
	require.NoError(t, err)
	assert.Nil(t, rule)

	rule, err = NewFeeRule(0, 5)
	require.NoError(t, err)
	assert.Equal(t, &FeeRule{MinFee: 5}, rule, "a zero rate with a minimum fee is a configured rule")

	_, err = NewFeeRule(70000, 0)
	assert.Error(t, err)

	assert.Nil(t, NewResaleRule(0))
}
