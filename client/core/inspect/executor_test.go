package inspect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/client/core/transport/transporttest"
	"github.com/suiticket/v1/pkg/bcs"
)

const testActivity = "0x00000000000000000000000000000000000000000000000000000000000ac7e5"

func activityFake() *transporttest.Fake {
	fake := transporttest.New()
	fake.AddObject(transporttest.SharedObject(testActivity, "0x1::activity::Activity", nil), "")
	fake.AddObject(transporttest.SharedObject(config.ClockObjectID, "0x2::clock::Clock", nil), "")
	return fake
}

func TestCallU64UsesZeroSender(t *testing.T) {
	fake := activityFake()
	var sender string
	fake.OnInspect(config.FnActivityTicketPrice, func(s string, _ []byte) (*transport.DevInspectResults, error) {
		sender = s
		return transporttest.ReturnU64(1_000_000_000), nil
	})

	b, err := builder.NewContracts(config.Testnet, config.DefaultRegistry()).Activity.TicketPrice(testActivity)
	require.NoError(t, err)

	price, err := NewExecutor(fake, nil).CallU64(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000), price)
	assert.Equal(t, config.ZeroAddress, sender)
}

func TestCallBool(t *testing.T) {
	fake := activityFake()
	fake.OnInspect(config.FnActivityIsSaleActive, func(string, []byte) (*transport.DevInspectResults, error) {
		return transporttest.ReturnBool(true), nil
	})

	b, err := builder.NewContracts(config.Testnet, config.DefaultRegistry()).Activity.IsSaleActive(testActivity)
	require.NoError(t, err)

	active, err := NewExecutor(fake, nil).CallBool(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestInspectFailures(t *testing.T) {
	contracts := builder.NewContracts(config.Testnet, config.DefaultRegistry())
	b, err := contracts.Activity.RemainingSupply(testActivity)
	require.NoError(t, err)

	t.Run("abort", func(t *testing.T) {
		_, err := NewExecutor(activityFake(), nil).CallU64(context.Background(), b)
		assert.ErrorIs(t, err, ErrSimulationFailed)
	})

	t.Run("transport", func(t *testing.T) {
		fake := activityFake()
		boom := errors.New("connection reset")
		fake.OnInspect(config.FnActivityRemainingSupply, func(string, []byte) (*transport.DevInspectResults, error) {
			return nil, boom
		})
		_, err := NewExecutor(fake, nil).CallU64(context.Background(), b)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no return value", func(t *testing.T) {
		fake := activityFake()
		fake.OnInspect(config.FnActivityRemainingSupply, func(string, []byte) (*transport.DevInspectResults, error) {
			return transporttest.Return(), nil
		})
		_, err := NewExecutor(fake, nil).CallU64(context.Background(), b)
		assert.ErrorIs(t, err, ErrNoReturnValue)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := NewExecutor(transporttest.New(), nil).CallU64(context.Background(), b)
		assert.ErrorIs(t, err, builder.ErrObjectInput)
	})
}

func TestDecoders(t *testing.T) {
	u16 := transport.ReturnValue{Bytes: bcs.U16(250), Type: "u16"}
	u64 := transport.ReturnValue{Bytes: bcs.U64(1_000), Type: "u64"}

	a, b, err := DecodeU64Pair([]transport.ReturnValue{u16, u64})
	require.NoError(t, err)
	assert.Equal(t, uint64(250), a)
	assert.Equal(t, uint64(1_000), b)

	packed := transport.ReturnValue{Bytes: append(bcs.U16(500), bcs.U64(7)...)}
	a, b, err = DecodeU64Pair([]transport.ReturnValue{packed})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), a)
	assert.Equal(t, uint64(7), b)

	wide := transport.ReturnValue{Bytes: append(bcs.U64(9), bcs.U64(1<<40)...)}
	a, b, err = DecodeU64Pair([]transport.ReturnValue{wide})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), a)
	assert.Equal(t, uint64(1<<40), b)

	_, _, err = DecodeU64Pair([]transport.ReturnValue{u16, {Bytes: []byte{1, 2, 3}}})
	assert.ErrorIs(t, err, ErrDecode)

	_, _, err = DecodeU64Pair([]transport.ReturnValue{{Bytes: []byte{1, 2, 3}}})
	assert.ErrorIs(t, err, ErrDecode)

	v16, err := DecodeU16([]transport.ReturnValue{u16})
	require.NoError(t, err)
	assert.Equal(t, uint16(250), v16)

	_, err = DecodeU64([]transport.ReturnValue{u16})
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeBool([]transport.ReturnValue{{Bytes: []byte{2}}})
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeU64(nil)
	assert.ErrorIs(t, err, ErrNoReturnValue)

	var id [32]byte
	id[31] = 0x42
	addr, err := DecodeAddress([]transport.ReturnValue{{Bytes: bcs.Address(id)}})
	require.NoError(t, err)
	assert.Equal(t, config.NormalizeAddress("0x42"), addr)
}
