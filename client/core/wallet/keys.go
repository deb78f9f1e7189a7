package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// ErrInvalidKey 私钥格式错误
var ErrInvalidKey = errors.New("invalid private key")

type ed25519Key struct {
	priv ed25519.PrivateKey
}

// NewEd25519FromSeed 由 32 字节种子创建 Ed25519 密钥
func NewEd25519FromSeed(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed needs %d bytes, got %d", ErrInvalidKey, ed25519.SeedSize, len(seed))
	}
	return &ed25519Key{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// GenerateEd25519 随机生成 Ed25519 密钥
func GenerateEd25519() (KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return &ed25519Key{priv: priv}, nil
}

func (k *ed25519Key) Scheme() Scheme    { return SchemeEd25519 }
func (k *ed25519Key) PublicKey() []byte { return append([]byte(nil), k.priv.Public().(ed25519.PublicKey)...) }
func (k *ed25519Key) Address() string   { return AddressOf(SchemeEd25519, k.PublicKey()) }

func (k *ed25519Key) Sign(digest []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, digest), nil
}

func (k *ed25519Key) Export() []byte {
	return append([]byte{byte(SchemeEd25519)}, k.priv.Seed()...)
}

type secp256k1Key struct {
	priv *secp256k1.PrivateKey
}

// NewSecp256k1FromBytes 由 32 字节私钥创建 Secp256k1 密钥
func NewSecp256k1FromBytes(b []byte) (KeyPair, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: secp256k1 key needs 32 bytes, got %d", ErrInvalidKey, len(b))
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("%w: zero secp256k1 scalar", ErrInvalidKey)
	}
	return &secp256k1Key{priv: priv}, nil
}

// GenerateSecp256k1 随机生成 Secp256k1 密钥
func GenerateSecp256k1() (KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate secp256k1 key: %w", err)
	}
	return &secp256k1Key{priv: priv}, nil
}

func (k *secp256k1Key) Scheme() Scheme    { return SchemeSecp256k1 }
func (k *secp256k1Key) PublicKey() []byte { return k.priv.PubKey().SerializeCompressed() }
func (k *secp256k1Key) Address() string   { return AddressOf(SchemeSecp256k1, k.PublicKey()) }

// Sign 对摘要的 SHA-256 做 ECDSA 签名，输出 64 字节 r || s(低 s)
func (k *secp256k1Key) Sign(digest []byte) ([]byte, error) {
	h := sha256.Sum256(digest)
	compact := ecdsa.SignCompact(k.priv, h[:], true)
	return compact[1:], nil
}

func (k *secp256k1Key) Export() []byte {
	return append([]byte{byte(SchemeSecp256k1)}, k.priv.Serialize()...)
}

// ParseExported 解析 flag || 私钥 形式的导出密钥
func ParseExported(b []byte) (KeyPair, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	switch Scheme(b[0]) {
	case SchemeEd25519:
		return NewEd25519FromSeed(b[1:])
	case SchemeSecp256k1:
		return NewSecp256k1FromBytes(b[1:])
	default:
		return nil, fmt.Errorf("%w: unsupported scheme flag 0x%02x", ErrInvalidKey, b[0])
	}
}

// Generate 按方案随机生成密钥
func Generate(scheme Scheme) (KeyPair, error) {
	switch scheme {
	case SchemeEd25519:
		return GenerateEd25519()
	case SchemeSecp256k1:
		return GenerateSecp256k1()
	default:
		return nil, fmt.Errorf("unsupported key scheme %s", scheme)
	}
}
