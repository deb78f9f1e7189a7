package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SLIP-0010 Ed25519 test vector 1
func TestSLIP10Vector1(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	master := NewMasterKey(seed)
	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(master.Key))
	assert.Equal(t, "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb", hex.EncodeToString(master.ChainCode))
	pub := ed25519.NewKeyFromSeed(master.Key).Public().(ed25519.PublicKey)
	assert.Equal(t, "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed", hex.EncodeToString(pub))

	child, err := master.Child(HardenedOffset)
	require.NoError(t, err)
	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(child.Key))
	assert.Equal(t, "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69", hex.EncodeToString(child.ChainCode))
	pub = ed25519.NewKeyFromSeed(child.Key).Public().(ed25519.PublicKey)
	assert.Equal(t, "8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c", hex.EncodeToString(pub))
}

func TestSLIP10RejectsNormalDerivation(t *testing.T) {
	_, err := NewMasterKey([]byte("seed")).Child(0)
	assert.Error(t, err)
}

func TestDeriveEd25519IsDeterministic(t *testing.T) {
	seed := make([]byte, 64)
	a, err := DeriveEd25519(seed, DefaultDerivationPath())
	require.NoError(t, err)
	b, err := DeriveEd25519(seed, DefaultDerivationPath())
	require.NoError(t, err)
	c, err := DeriveEd25519(seed, DefaultDerivationPath().NextAddress())
	require.NoError(t, err)

	assert.Equal(t, a.Key, b.Key)
	assert.NotEqual(t, a.Key, c.Key)
}
