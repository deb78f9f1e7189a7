package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"

	"github.com/suiticket/v1/client/core/config"
)

var (
	// ErrAccountNotFound keystore 中没有该地址
	ErrAccountNotFound = errors.New("account not found in keystore")
	// ErrWrongPassword 备份密码错误
	ErrWrongPassword = errors.New("wrong password")
)

// Keystore 与 sui.keystore 兼容的明文密钥文件
//
// 文件内容为 JSON 字符串数组，每项为 base64(flag || 私钥)。
type Keystore struct {
	path string

	mu   sync.RWMutex
	keys []KeyPair
}

// OpenKeystore 打开 keystore 文件，文件不存在时得到空 keystore
func OpenKeystore(path string) (*Keystore, error) {
	ks := &Keystore{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ks, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}

	var encoded []string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("parse keystore %s: %w", path, err)
	}
	for i, item := range encoded {
		raw, err := base64.StdEncoding.DecodeString(item)
		if err != nil {
			return nil, fmt.Errorf("keystore entry %d: %w", i, err)
		}
		kp, err := ParseExported(raw)
		if err != nil {
			return nil, fmt.Errorf("keystore entry %d: %w", i, err)
		}
		ks.keys = append(ks.keys, kp)
	}
	return ks, nil
}

// Path 文件路径
func (ks *Keystore) Path() string { return ks.path }

// Save 写回文件(0600)
func (ks *Keystore) Save() error {
	ks.mu.RLock()
	encoded := make([]string, len(ks.keys))
	for i, kp := range ks.keys {
		encoded[i] = base64.StdEncoding.EncodeToString(kp.Export())
	}
	ks.mu.RUnlock()

	data, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(ks.path), 0o700); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}
	if err := os.WriteFile(ks.path, data, 0o600); err != nil {
		return fmt.Errorf("write keystore: %w", err)
	}
	return nil
}

// Add 加入密钥，地址已存在时不重复加入
func (ks *Keystore) Add(kp KeyPair) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	for _, existing := range ks.keys {
		if existing.Address() == kp.Address() {
			return
		}
	}
	ks.keys = append(ks.keys, kp)
}

// Find 按地址查找密钥，地址不区分前导零与大小写
func (ks *Keystore) Find(address string) (KeyPair, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	for _, kp := range ks.keys {
		if config.SameAddress(kp.Address(), address) {
			return kp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
}

// Remove 删除地址对应的密钥
func (ks *Keystore) Remove(address string) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	for i, kp := range ks.keys {
		if config.SameAddress(kp.Address(), address) {
			ks.keys = append(ks.keys[:i], ks.keys[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrAccountNotFound, address)
}

// Addresses 全部地址，按字典序
func (ks *Keystore) Addresses() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	out := make([]string, len(ks.keys))
	for i, kp := range ks.keys {
		out[i] = kp.Address()
	}
	sort.Strings(out)
	return out
}

// EncryptedKey 单个密钥的加密备份
type EncryptedKey struct {
	Version   string       `json:"version"`
	ID        string       `json:"id"`
	Address   string       `json:"address"`
	Crypto    CryptoParams `json:"crypto"`
	CreatedAt string       `json:"created_at"`
}

// CryptoParams 加密参数
type CryptoParams struct {
	Cipher     string `json:"cipher"`     // aes-256-gcm
	Ciphertext string `json:"ciphertext"` // hex
	Nonce      string `json:"nonce"`      // hex
	KDF        string `json:"kdf"`        // pbkdf2
	Salt       string `json:"salt"`       // hex
	Iterations int    `json:"c"`
}

const (
	encryptedKeyVersion = "1"
	pbkdf2Iterations    = 262144
)

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, 32, sha256.New)
}

// Encrypt 用密码加密导出密钥
func Encrypt(kp KeyPair, password string) (*EncryptedKey, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := newGCM(deriveKey(password, salt, pbkdf2Iterations))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	ciphertext := gcm.Seal(nil, nonce, kp.Export(), []byte(kp.Address()))

	return &EncryptedKey{
		Version: encryptedKeyVersion,
		ID:      uuid.NewString(),
		Address: kp.Address(),
		Crypto: CryptoParams{
			Cipher:     "aes-256-gcm",
			Ciphertext: hex.EncodeToString(ciphertext),
			Nonce:      hex.EncodeToString(nonce),
			KDF:        "pbkdf2",
			Salt:       hex.EncodeToString(salt),
			Iterations: pbkdf2Iterations,
		},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Decrypt 用密码解密备份，地址作为附加认证数据参与校验
func (e *EncryptedKey) Decrypt(password string) (KeyPair, error) {
	if e.Crypto.Cipher != "aes-256-gcm" || e.Crypto.KDF != "pbkdf2" {
		return nil, fmt.Errorf("unsupported backup cipher %s/%s", e.Crypto.Cipher, e.Crypto.KDF)
	}
	salt, err := hex.DecodeString(e.Crypto.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	nonce, err := hex.DecodeString(e.Crypto.Nonce)
	if err != nil {
		return nil, fmt.Errorf("decode nonce: %w", err)
	}
	ciphertext, err := hex.DecodeString(e.Crypto.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	gcm, err := newGCM(deriveKey(password, salt, e.Crypto.Iterations))
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("nonce has %d bytes, want %d", len(nonce), gcm.NonceSize())
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, []byte(e.Address))
	if err != nil {
		return nil, ErrWrongPassword
	}
	kp, err := ParseExported(plain)
	if err != nil {
		return nil, err
	}
	if kp.Address() != e.Address {
		return nil, fmt.Errorf("backup address %s does not match key %s", e.Address, kp.Address())
	}
	return kp, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
