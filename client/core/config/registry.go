// Package config 提供网络环境、合约地址注册表与客户端Profile管理
//
// 注册表按网络环境索引，每个环境记录：
//   - 按升级顺序累积的包版本(版本标签 → 包地址)，只增不删
//   - 显式的 Latest 指针，不依赖标签的字典序
//   - 平台、Publisher、转移策略及其 Cap 等单例对象地址
//
// 所有查询均为纯函数。地址未配置时返回空字符串，调用方应视为
// "该环境下功能不可用"，而不是报错退出。
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Environment 网络环境
type Environment string

const (
	Mainnet Environment = "mainnet"
	Testnet Environment = "testnet"
	Devnet  Environment = "devnet"
)

var (
	// ErrUnknownEnvironment 未知网络环境
	ErrUnknownEnvironment = errors.New("unknown environment")
	// ErrVersionConflict 同一版本标签被映射到不同地址
	ErrVersionConflict = errors.New("package version conflict")
	// ErrLatestMissing Latest 指针指向不存在的版本
	ErrLatestMissing = errors.New("latest version not registered")
)

// Environments 返回所有受支持的环境
func Environments() []Environment {
	return []Environment{Mainnet, Testnet, Devnet}
}

// ParseEnvironment 解析环境名称
func ParseEnvironment(s string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(s)))
	switch env {
	case Mainnet, Testnet, Devnet:
		return env, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
}

// RPCEndpoint 环境的默认全节点 JSON-RPC 地址
func (e Environment) RPCEndpoint() string {
	switch e {
	case Mainnet, Testnet, Devnet:
		return fmt.Sprintf("https://fullnode.%s.sui.io:443", e)
	default:
		return ""
	}
}

// Role 注册表中的地址角色
type Role string

const (
	RolePackage           Role = "package" // 最新版本包地址
	RolePlatform          Role = "platform"
	RolePublisher         Role = "publisher"
	RoleTransferPolicy    Role = "transfer_policy"
	RoleTransferPolicyCap Role = "transfer_policy_cap"
)

// PackageVersion 一个已发布的包版本
type PackageVersion struct {
	Label   string `json:"label" yaml:"label"`
	Address string `json:"address" yaml:"address"`
}

// RegistryEntry 单个环境的合约地址记录
type RegistryEntry struct {
	Versions          []PackageVersion `json:"versions" yaml:"versions"`
	Latest            string           `json:"latest" yaml:"latest"`
	Platform          string           `json:"platform" yaml:"platform"`
	Publisher         string           `json:"publisher" yaml:"publisher"`
	TransferPolicy    string           `json:"transfer_policy" yaml:"transfer_policy"`
	TransferPolicyCap string           `json:"transfer_policy_cap" yaml:"transfer_policy_cap"`
}

// PackageAddress 返回指定版本标签的包地址，不存在时返回空字符串
func (e RegistryEntry) PackageAddress(label string) string {
	for _, v := range e.Versions {
		if v.Label == label {
			return v.Address
		}
	}
	return ""
}

func (e RegistryEntry) clone() RegistryEntry {
	out := e
	out.Versions = append([]PackageVersion(nil), e.Versions...)
	return out
}

func (e RegistryEntry) validate() error {
	seen := make(map[string]string, len(e.Versions))
	for _, v := range e.Versions {
		if v.Label == "" {
			return fmt.Errorf("empty version label")
		}
		if prev, ok := seen[v.Label]; ok && !SameAddress(prev, v.Address) {
			return fmt.Errorf("%w: %s", ErrVersionConflict, v.Label)
		}
		seen[v.Label] = v.Address
	}
	if e.Latest != "" {
		if _, ok := seen[e.Latest]; !ok {
			return fmt.Errorf("%w: %s", ErrLatestMissing, e.Latest)
		}
	}
	return nil
}

// Registry 不可变的多环境注册表
type Registry struct {
	entries map[Environment]RegistryEntry
}

// NewRegistry 创建注册表并校验每个环境的记录
func NewRegistry(entries map[Environment]RegistryEntry) (*Registry, error) {
	r := &Registry{entries: make(map[Environment]RegistryEntry, len(entries))}
	for env, entry := range entries {
		if _, err := ParseEnvironment(string(env)); err != nil {
			return nil, err
		}
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("registry %s: %w", env, err)
		}
		r.entries[env] = entry.clone()
	}
	return r, nil
}

// Entry 返回环境记录的副本
func (r *Registry) Entry(env Environment) (RegistryEntry, bool) {
	entry, ok := r.entries[env]
	if !ok {
		return RegistryEntry{}, false
	}
	return entry.clone(), true
}

// AddressOf 按角色查询地址，未配置时返回空字符串
func (r *Registry) AddressOf(env Environment, role Role) string {
	entry, ok := r.entries[env]
	if !ok {
		return ""
	}
	switch role {
	case RolePackage:
		return entry.PackageAddress(entry.Latest)
	case RolePlatform:
		return entry.Platform
	case RolePublisher:
		return entry.Publisher
	case RoleTransferPolicy:
		return entry.TransferPolicy
	case RoleTransferPolicyCap:
		return entry.TransferPolicyCap
	default:
		return ""
	}
}

// LatestPackageAddress 返回 Latest 指针所指的包地址
func (r *Registry) LatestPackageAddress(env Environment) string {
	return r.AddressOf(env, RolePackage)
}

// LatestVersion 返回 Latest 指针的版本标签
func (r *Registry) LatestVersion(env Environment) string {
	return r.entries[env].Latest
}

// PackageAddress 返回指定版本的包地址
func (r *Registry) PackageAddress(env Environment, label string) string {
	entry, ok := r.entries[env]
	if !ok {
		return ""
	}
	return entry.PackageAddress(label)
}

// Versions 按发布顺序返回版本标签
func (r *Registry) Versions(env Environment) []string {
	entry := r.entries[env]
	labels := make([]string, 0, len(entry.Versions))
	for _, v := range entry.Versions {
		labels = append(labels, v.Label)
	}
	return labels
}

// Available 检查给定角色在环境中是否都已配置
func (r *Registry) Available(env Environment, roles ...Role) bool {
	for _, role := range roles {
		if r.AddressOf(env, role) == "" {
			return false
		}
	}
	return true
}

// Target 返回最新包下 pkg::module::function 形式的调用目标，包未部署时返回空字符串
func (r *Registry) Target(env Environment, module, function string) string {
	pkg := r.LatestPackageAddress(env)
	if pkg == "" {
		return ""
	}
	return pkg + "::" + ModuleFunctionTarget(module, function)
}

// Merge 以覆盖项生成新的注册表
//
// 版本只累积不删除：已有标签必须指向同一地址，新标签追加在末尾。
// 单例地址与 Latest 在覆盖项非空时替换。
func (r *Registry) Merge(env Environment, override RegistryEntry) (*Registry, error) {
	if _, err := ParseEnvironment(string(env)); err != nil {
		return nil, err
	}

	merged := r.entries[env].clone()
	for _, v := range override.Versions {
		existing := merged.PackageAddress(v.Label)
		switch {
		case existing == "":
			merged.Versions = append(merged.Versions, v)
		case !SameAddress(existing, v.Address):
			return nil, fmt.Errorf("registry %s: %w: %s", env, ErrVersionConflict, v.Label)
		}
	}
	if override.Latest != "" {
		merged.Latest = override.Latest
	}
	if override.Platform != "" {
		merged.Platform = override.Platform
	}
	if override.Publisher != "" {
		merged.Publisher = override.Publisher
	}
	if override.TransferPolicy != "" {
		merged.TransferPolicy = override.TransferPolicy
	}
	if override.TransferPolicyCap != "" {
		merged.TransferPolicyCap = override.TransferPolicyCap
	}

	entries := make(map[Environment]RegistryEntry, len(r.entries)+1)
	for k, v := range r.entries {
		entries[k] = v
	}
	entries[env] = merged
	return NewRegistry(entries)
}

// ModuleFunctionTarget 返回 module::function
func ModuleFunctionTarget(module, function string) string {
	return module + "::" + function
}

// StructType 返回 pkg::module::Struct
func StructType(pkg, module, name string) string {
	return pkg + "::" + module + "::" + name
}

// DefaultRegistry 返回内置的注册表
//
// mainnet 尚未部署，所有地址为空。
func DefaultRegistry() *Registry {
	r, err := NewRegistry(map[Environment]RegistryEntry{
		Mainnet: {},
		Testnet: {
			Versions: []PackageVersion{
				{Label: "v1", Address: "0x4bd1a9e2e7b53c8f3a44f1c9d0e7b6a5c3f2e1d0c9b8a7f6e5d4c3b2a1908f7e"},
				{Label: "v2", Address: "0x7a26c3d9e8f1b0a4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c"},
				{Label: "v3", Address: "0x91c0e4b7a2d35f68e1c9b0a7d6e5f4c3b2a19087f6e5d4c3b2a1f0e9d8c7b6a5"},
				{Label: "v4", Address: "0xd3f8a61b29c07e45f1a2b3c4d5e6f70812a3b4c5d6e7f8091a2b3c4d5e6f7081"},
			},
			Latest:            "v4",
			Platform:          "0x2c5e8f1a3b4d6c7e9f0a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60",
			Publisher:         "0x5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d",
			TransferPolicy:    "0x8a9b0c1d2e3f405162738495a6b7c8d9e0f1a2b3c4d5e6f708192a3b4c5d6e7f",
			TransferPolicyCap: "0xb1c2d3e4f5061728394a5b6c7d8e9f0a1b2c3d4e5f60718293a4b5c6d7e8f90a",
		},
		Devnet: {
			Versions: []PackageVersion{
				{Label: "v1", Address: "0x3f4e5d6c7b8a99a8b7c6d5e4f3e2d1c0b9a8f7e6d5c4b3a29180f7e6d5c4b3a2"},
			},
			Latest:            "v1",
			Platform:          "0x6d7c8b9a0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a697887960a1b",
			Publisher:         "0x9c8b7a6f5e4d3c2b1a0998877665544332211000ffeeddccbbaa998877665544",
			TransferPolicy:    "0xc4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3",
			TransferPolicyCap: "0xe7f8091a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("invalid built-in registry: %v", err))
	}
	return r
}
