package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport/transporttest"
	"github.com/suiticket/v1/pkg/bcs"
)

func TestResolveKindEncodesObjectInputs(t *testing.T) {
	fake := transporttest.New()
	owned := transporttest.OwnedObject("0xa11ce", "0x2::coin::Coin<0x2::sui::SUI>", testBuyer, nil)
	owned.Version = 42
	fake.AddObject(owned, testBuyer)
	fake.AddObject(transporttest.SharedObject(testKiosk, config.FrameworkKioskType, nil), "")

	b := NewBundle()
	coin := b.Object("0xa11ce")
	kiosk := b.ImmutableObject(testKiosk)
	b.MoveCall("0x2::m::f", []string{"0x2::sui::SUI"}, coin, kiosk)

	kind, err := NewResolver(fake).ResolveKind(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("MultiGetObjects"))

	d := bcs.NewDecoder(kind)
	uleb := func() uint32 {
		v, err := d.ULEB128()
		require.NoError(t, err)
		return v
	}
	addr := func() string {
		a, err := d.Address()
		require.NoError(t, err)
		return config.NormalizeAddress(bytesHex(a[:]))
	}
	u64 := func() uint64 {
		v, err := d.U64()
		require.NoError(t, err)
		return v
	}
	str := func() string {
		s, err := d.String()
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, uint32(0), uleb(), "ProgrammableTransaction")
	assert.Equal(t, uint32(2), uleb(), "input count")

	// 拥有对象: CallArg::Object(ImmOrOwned(ref))
	assert.Equal(t, uint32(1), uleb())
	assert.Equal(t, uint32(0), uleb())
	assert.Equal(t, config.NormalizeAddress("0xa11ce"), addr())
	assert.Equal(t, uint64(42), u64())
	digest, err := d.VecU8()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), digest)

	// 共享对象: CallArg::Object(Shared{id, initial_shared_version, mutable})
	assert.Equal(t, uint32(1), uleb())
	assert.Equal(t, uint32(1), uleb())
	assert.Equal(t, testKiosk, addr())
	assert.Equal(t, uint64(1), u64())
	mutable, err := d.Bool()
	require.NoError(t, err)
	assert.False(t, mutable)

	// MoveCall
	assert.Equal(t, uint32(1), uleb(), "command count")
	assert.Equal(t, uint32(0), uleb())
	assert.Equal(t, config.NormalizeAddress("0x2"), addr())
	assert.Equal(t, "m", str())
	assert.Equal(t, "f", str())
	assert.Equal(t, uint32(1), uleb(), "type argument count")
	assert.Equal(t, uint32(7), uleb())
	assert.Equal(t, config.NormalizeAddress("0x2"), addr())
	assert.Equal(t, "sui", str())
	assert.Equal(t, "SUI", str())
	assert.Equal(t, uint32(0), uleb())

	assert.Equal(t, uint32(2), uleb(), "argument count")
	for i := uint16(0); i < 2; i++ {
		assert.Equal(t, uint32(1), uleb())
		idx, err := d.U16()
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	require.NoError(t, d.Done())
}

func TestResolveKindMissingObject(t *testing.T) {
	b := NewBundle()
	b.TransferObjects([]Argument{b.Object("0xdead")}, b.PureAddress(testBuyer))

	_, err := NewResolver(transporttest.New()).ResolveKind(context.Background(), b)
	assert.ErrorIs(t, err, ErrObjectInput)
}

func TestResolveKindRejectsBuildErrors(t *testing.T) {
	fake := transporttest.New()

	empty := NewBundle()
	_, err := NewResolver(fake).ResolveKind(context.Background(), empty)
	assert.ErrorIs(t, err, ErrEmptyBundle)

	bad := NewBundle()
	bad.MoveCall("0x2::m::f", nil, bad.PureAddress("zz"))
	_, err = NewResolver(fake).ResolveKind(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, fake.Calls("MultiGetObjects"))
}

func TestEncodeKindSplitAndTransfer(t *testing.T) {
	b := NewBundle()
	coin := b.SplitCoins(GasCoin(), b.PureU64(5))
	b.TransferObjects([]Argument{coin.Item(0)}, b.PureAddress("0x1"))

	kind, err := EncodeKind(b, nil)
	require.NoError(t, err)

	e := bcs.NewEncoder().Variant(0)
	e.ULEB128(2)
	e.Variant(0).VecU8(bcs.U64(5))
	one, _ := config.ParseAddress("0x1")
	e.Variant(0).VecU8(bcs.Address(one))
	e.ULEB128(2)
	e.Variant(2).Variant(0).ULEB128(1).Variant(1).U16(0)
	e.Variant(1).ULEB128(1).Variant(3).U16(0).U16(0).Variant(1).U16(1)

	assert.Equal(t, e.Bytes(), kind)
}

func bytesHex(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0x0f]
	}
	return string(out)
}
