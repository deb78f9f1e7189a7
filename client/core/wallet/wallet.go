package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/suiticket/v1/client/core/builder"
	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/transport"
	"github.com/suiticket/v1/pkg/interfaces/infrastructure/log"
)

// NativeCoinType 原生币类型
const NativeCoinType = "0x2::sui::SUI"

var (
	// ErrExecutionFailed 交易已提交但执行失败
	ErrExecutionFailed = errors.New("transaction execution failed")
	// ErrNoAccount 钱包没有可用账户
	ErrNoAccount = errors.New("wallet has no active account")
	// ErrNoClient 钱包没有该网络的节点连接
	ErrNoClient = errors.New("no client for network")
)

// ExecutionError 执行失败详情，Message 为节点返回的原文
type ExecutionError struct {
	Digest  string
	Message string
}

func (e *ExecutionError) Error() string { return e.Message }

// Unwrap 使 errors.Is(err, ErrExecutionFailed) 成立
func (e *ExecutionError) Unwrap() error { return ErrExecutionFailed }

// SubmitResult 提交结果
type SubmitResult struct {
	Digest   string                        `json:"digest"`
	Effects  *transport.TransactionEffects `json:"effects,omitempty"`
	GasCoins []string                      `json:"gas_coins"`
	Sender   string                        `json:"sender"`
}

// Wallet 签名并提交交易包的协作者
type Wallet interface {
	// Address 当前账户地址，没有账户时为空
	Address() string
	// Accounts 钱包管理的全部地址
	Accounts() []string
	// SignAndSubmit 在 env 网络上签名并提交交易包
	SignAndSubmit(ctx context.Context, b *builder.Bundle, env config.Environment) (*SubmitResult, error)
}

// Option KeystoreWallet 选项
type Option func(*KeystoreWallet)

// WithClient 登记某网络的节点连接
func WithClient(env config.Environment, client transport.Client) Option {
	return func(w *KeystoreWallet) { w.clients[env] = client }
}

// WithSelector 替换 Gas 币选择策略，默认 GreedySelector
func WithSelector(s CoinSelector) Option {
	return func(w *KeystoreWallet) { w.selector = s }
}

// WithLogger 设置日志
func WithLogger(logger log.Logger) Option {
	return func(w *KeystoreWallet) {
		if logger != nil {
			w.logger = logger.With("module", log.ModuleWallet)
		}
	}
}

// KeystoreWallet 基于本地 keystore 的钱包
type KeystoreWallet struct {
	keystore *Keystore
	clients  map[config.Environment]transport.Client
	selector CoinSelector
	logger   log.Logger

	mu     sync.RWMutex
	active string
}

var _ Wallet = (*KeystoreWallet)(nil)

// NewKeystoreWallet 创建钱包，active 为空时使用 keystore 中的第一个地址
func NewKeystoreWallet(ks *Keystore, active string, opts ...Option) (*KeystoreWallet, error) {
	w := &KeystoreWallet{
		keystore: ks,
		clients:  make(map[config.Environment]transport.Client),
		selector: GreedySelector{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if active != "" {
		if err := w.SetActive(active); err != nil {
			return nil, err
		}
	} else if addrs := ks.Addresses(); len(addrs) > 0 {
		w.active = addrs[0]
	}
	return w, nil
}

// Address 实现 Wallet
func (w *KeystoreWallet) Address() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// Accounts 实现 Wallet
func (w *KeystoreWallet) Accounts() []string { return w.keystore.Addresses() }

// SetActive 切换当前账户
func (w *KeystoreWallet) SetActive(address string) error {
	kp, err := w.keystore.Find(address)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.active = kp.Address()
	w.mu.Unlock()
	return nil
}

// ImportMnemonic 由助记词派生默认路径的 Ed25519 密钥并写入 keystore
func (w *KeystoreWallet) ImportMnemonic(mnemonic string) (string, error) {
	kp, err := NewMnemonicManager().KeyFromMnemonic(mnemonic, nil)
	if err != nil {
		return "", err
	}
	return w.importKey(kp)
}

// Generate 生成新密钥并写入 keystore
func (w *KeystoreWallet) Generate(scheme Scheme) (string, error) {
	kp, err := Generate(scheme)
	if err != nil {
		return "", err
	}
	return w.importKey(kp)
}

func (w *KeystoreWallet) importKey(kp KeyPair) (string, error) {
	w.keystore.Add(kp)
	if err := w.keystore.Save(); err != nil {
		return "", err
	}
	w.mu.Lock()
	if w.active == "" {
		w.active = kp.Address()
	}
	w.mu.Unlock()
	return kp.Address(), nil
}

func (w *KeystoreWallet) infof(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Infof(format, args...)
	}
}

func (w *KeystoreWallet) warnf(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Warnf(format, args...)
	}
}

// SignAndSubmit 实现 Wallet
//
// 流程：解析交易包 → 参考Gas价格 → 选择Gas币 → 编码 TransactionData → 签名 → 提交。
// 执行失败时返回 *ExecutionError，不做重试。
func (w *KeystoreWallet) SignAndSubmit(ctx context.Context, b *builder.Bundle, env config.Environment) (*SubmitResult, error) {
	client, ok := w.clients[env]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoClient, env)
	}

	sender := b.Sender()
	if sender == "" {
		sender = w.Address()
	}
	if sender == "" {
		return nil, ErrNoAccount
	}
	kp, err := w.keystore.Find(sender)
	if err != nil {
		return nil, err
	}
	sender = kp.Address()

	kind, err := builder.NewResolver(client).ResolveKind(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("resolve bundle: %w", err)
	}

	price, err := client.GetReferenceGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference gas price: %w", err)
	}

	coins, err := w.ownedCoins(ctx, client, sender)
	if err != nil {
		return nil, err
	}
	selected, _, err := w.selector.Select(coins, GasTarget(b))
	if err != nil {
		return nil, err
	}

	payment := make([]builder.ObjectRef, len(selected))
	coinIDs := make([]string, len(selected))
	for i, c := range selected {
		payment[i] = builder.ObjectRef{ObjectID: c.CoinObjectID, Version: uint64(c.Version), Digest: c.Digest}
		coinIDs[i] = c.CoinObjectID
	}

	txBytes, err := EncodeTransactionData(kind, sender, GasData{
		Payment: payment,
		Owner:   sender,
		Price:   price,
		Budget:  b.GasBudget(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}

	sig, err := SerializedSignature(kp, IntentDigest(txBytes))
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	digest := TransactionDigest(txBytes)
	w.infof("submitting %s from %s on %s with %d gas coins", digest, sender, env, len(selected))

	resp, err := client.ExecuteTransactionBlock(ctx,
		base64.StdEncoding.EncodeToString(txBytes),
		[]string{base64.StdEncoding.EncodeToString(sig)})
	if err != nil {
		return nil, fmt.Errorf("execute transaction: %w", err)
	}
	if resp.Digest != "" && resp.Digest != digest {
		w.warnf("node returned digest %s, computed %s", resp.Digest, digest)
		digest = resp.Digest
	}
	if len(resp.Errors) > 0 {
		return nil, &ExecutionError{Digest: digest, Message: resp.Errors[0]}
	}
	if resp.Effects != nil && !resp.Effects.Status.Succeeded() {
		return nil, &ExecutionError{Digest: digest, Message: resp.Effects.Status.Error}
	}

	return &SubmitResult{Digest: digest, Effects: resp.Effects, GasCoins: coinIDs, Sender: sender}, nil
}

func (w *KeystoreWallet) ownedCoins(ctx context.Context, client transport.Client, owner string) ([]transport.Coin, error) {
	var coins []transport.Coin
	err := transport.Paginate(ctx, func(ctx context.Context, cursor *string) (*string, bool, error) {
		page, err := client.GetCoins(ctx, owner, NativeCoinType, cursor, transport.PageLimit)
		if err != nil {
			return nil, false, err
		}
		coins = append(coins, page.Data...)
		return page.NextCursor, page.HasNextPage, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list gas coins: %w", err)
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGasCoins, owner)
	}
	return coins, nil
}
