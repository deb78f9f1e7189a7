// Package wallet 管理签名密钥并签名提交交易包
//
// 支持 Ed25519 与 Secp256k1 两种签名方案。地址为 blake2b-256(flag || 公钥)，
// 签名对象为意图消息 [0,0,0] || BCS(TransactionData) 的 blake2b-256 摘要。
package wallet

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Scheme 签名方案，取值即序列化签名与导出私钥中的标志字节
type Scheme byte

const (
	SchemeEd25519   Scheme = 0x00
	SchemeSecp256k1 Scheme = 0x01
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("scheme(%d)", byte(s))
	}
}

// ParseScheme 解析签名方案名
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "ed25519", "":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	default:
		return 0, fmt.Errorf("unsupported key scheme %q", name)
	}
}

// KeyPair 签名密钥对
type KeyPair interface {
	// Scheme 签名方案
	Scheme() Scheme
	// PublicKey 公钥字节(ed25519 32字节，secp256k1 压缩格式33字节)
	PublicKey() []byte
	// Address 账户地址
	Address() string
	// Sign 对 32 字节摘要签名，返回不含标志与公钥的原始签名
	Sign(digest []byte) ([]byte, error)
	// Export 导出 flag || 私钥，即 keystore 中的存储形式
	Export() []byte
}

// AddressOf 由签名方案与公钥计算地址
func AddressOf(scheme Scheme, publicKey []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{byte(scheme)})
	h.Write(publicKey)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// SerializedSignature 签名摘要并返回 flag || 签名 || 公钥
func SerializedSignature(kp KeyPair, digest []byte) ([]byte, error) {
	sig, err := kp.Sign(digest)
	if err != nil {
		return nil, err
	}
	pub := kp.PublicKey()
	out := make([]byte, 0, 1+len(sig)+len(pub))
	out = append(out, byte(kp.Scheme()))
	out = append(out, sig...)
	out = append(out, pub...)
	return out, nil
}
