package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

const slip10Ed25519Key = "ed25519 seed"

// ExtendedKey SLIP-10 Ed25519 扩展私钥
type ExtendedKey struct {
	Key       []byte
	ChainCode []byte
}

// NewMasterKey 由种子生成主扩展私钥
func NewMasterKey(seed []byte) *ExtendedKey {
	mac := hmac.New(sha512.New, []byte(slip10Ed25519Key))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return &ExtendedKey{Key: sum[:32], ChainCode: sum[32:]}
}

// Child 硬化派生子私钥，index 必须带硬化偏移
func (k *ExtendedKey) Child(index uint32) (*ExtendedKey, error) {
	if index < HardenedOffset {
		return nil, fmt.Errorf("ed25519 supports hardened derivation only, got index %d", index)
	}
	data := make([]byte, 0, 1+32+4)
	data = append(data, 0x00)
	data = append(data, k.Key...)
	data = binary.BigEndian.AppendUint32(data, index)

	mac := hmac.New(sha512.New, k.ChainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return &ExtendedKey{Key: sum[:32], ChainCode: sum[32:]}, nil
}

// DeriveEd25519 沿路径从种子派生扩展私钥
func DeriveEd25519(seed []byte, path *DerivationPath) (*ExtendedKey, error) {
	key := NewMasterKey(seed)
	for _, index := range path.ToUint32Array() {
		child, err := key.Child(index)
		if err != nil {
			return nil, err
		}
		key = child
	}
	return key, nil
}
