package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultGasBudget 默认交易资源预算(MIST)
const DefaultGasBudget uint64 = 100_000_000

// Profile 单个网络环境的客户端配置
type Profile struct {
	Name    string      `json:"name"`
	Network Environment `json:"network"`

	// 节点端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	KeystorePath string `json:"keystore_path,omitempty"` // 密钥库文件
	RegistryFile string `json:"registry_file,omitempty"` // 注册表覆盖文件(YAML)

	// 网络配置，Timeout 之外的字段仅由可选的故障转移客户端使用
	Timeout             Duration `json:"timeout"`
	RetryAttempts       int      `json:"retry_attempts"`
	RetryBackoff        Duration `json:"retry_backoff"`
	HealthCheckInterval Duration `json:"health_check_interval"`

	// 交易默认值
	GasBudget   uint64   `json:"gas_budget,omitempty"`
	SettleDelay Duration `json:"settle_delay,omitempty"` // 提交后刷新前的等待时间
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 数字越小越优先
	JSONRPC  string `json:"jsonrpc"`
}

// PrimaryEndpoint 返回优先级最高的端点地址
func (p *Profile) PrimaryEndpoint() string {
	if len(p.Endpoints) == 0 {
		return p.Network.RPCEndpoint()
	}
	eps := append([]EndpointConfig(nil), p.Endpoints...)
	sort.SliceStable(eps, func(i, j int) bool { return eps[i].Priority < eps[j].Priority })
	return eps[0].JSONRPC
}

// Duration 支持JSON字符串形式("30s")的时间间隔
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(dur)
	return nil
}

// ProfileManager Profile管理器
type ProfileManager struct {
	configDir      string
	currentProfile string
	profiles       map[string]*Profile
}

// DefaultConfigDir 默认配置目录 ~/.suiticket
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".suiticket"), nil
}

// NewProfileManager 创建Profile管理器，首次使用时写入默认profiles
func NewProfileManager(configDir string) (*ProfileManager, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	pm := &ProfileManager{
		configDir: configDir,
		profiles:  make(map[string]*Profile),
	}

	if err := pm.loadProfiles(); err != nil {
		return nil, err
	}

	if err := pm.loadCurrentProfile(); err != nil {
		pm.currentProfile = string(Testnet)
	}

	return pm, nil
}

// ConfigDir 返回配置目录
func (pm *ProfileManager) ConfigDir() string {
	return pm.configDir
}

func (pm *ProfileManager) profilesDir() string {
	return filepath.Join(pm.configDir, "profiles")
}

// loadProfiles 加载所有profiles
func (pm *ProfileManager) loadProfiles() error {
	profilesDir := pm.profilesDir()

	if _, err := os.Stat(profilesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(profilesDir, 0700); err != nil {
			return fmt.Errorf("create profiles dir: %w", err)
		}
		if err := pm.createDefaultProfiles(); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return fmt.Errorf("read profiles dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		profile, err := pm.loadProfile(filepath.Join(profilesDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("load profile %s: %w", entry.Name(), err)
		}
		pm.profiles[profile.Name] = profile
	}

	return nil
}

// loadProfile 加载单个profile并填充默认值
func (pm *ProfileManager) loadProfile(filePath string) (*Profile, error) {
	//nolint:gosec // G304: filePath 来自配置目录
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if _, err := ParseEnvironment(string(profile.Network)); err != nil {
		return nil, err
	}

	applyProfileDefaults(&profile)
	return &profile, nil
}

func applyProfileDefaults(p *Profile) {
	if p.Timeout == 0 {
		p.Timeout = Duration(30 * time.Second)
	}
	if p.RetryAttempts == 0 {
		p.RetryAttempts = 3
	}
	if p.RetryBackoff == 0 {
		p.RetryBackoff = Duration(time.Second)
	}
	if p.HealthCheckInterval == 0 {
		p.HealthCheckInterval = Duration(30 * time.Second)
	}
	if p.GasBudget == 0 {
		p.GasBudget = DefaultGasBudget
	}
	if p.SettleDelay == 0 {
		p.SettleDelay = Duration(2 * time.Second)
	}
}

func (pm *ProfileManager) loadCurrentProfile() error {
	//nolint:gosec // G304: 路径来自配置目录
	data, err := os.ReadFile(filepath.Join(pm.configDir, "current"))
	if err != nil {
		return err
	}
	pm.currentProfile = string(data)
	return nil
}

func (pm *ProfileManager) saveCurrentProfile() error {
	return os.WriteFile(filepath.Join(pm.configDir, "current"), []byte(pm.currentProfile), 0600)
}

// DefaultProfile 返回环境的内置profile
func DefaultProfile(env Environment) *Profile {
	p := &Profile{
		Name:    string(env),
		Network: env,
		Endpoints: []EndpointConfig{
			{Name: string(env) + "-fullnode", Priority: 1, JSONRPC: env.RPCEndpoint()},
		},
	}
	applyProfileDefaults(p)
	return p
}

func (pm *ProfileManager) createDefaultProfiles() error {
	for _, env := range Environments() {
		if err := pm.SaveProfile(DefaultProfile(env)); err != nil {
			return err
		}
	}

	pm.currentProfile = string(Testnet)
	return pm.saveCurrentProfile()
}

// GetProfile 获取指定profile
func (pm *ProfileManager) GetProfile(name string) (*Profile, error) {
	profile, exists := pm.profiles[name]
	if !exists {
		return nil, fmt.Errorf("profile not found: %s", name)
	}
	return profile, nil
}

// GetCurrentProfile 获取当前profile
func (pm *ProfileManager) GetCurrentProfile() (*Profile, error) {
	return pm.GetProfile(pm.currentProfile)
}

// CurrentName 当前profile名称
func (pm *ProfileManager) CurrentName() string {
	return pm.currentProfile
}

// ListProfiles 按名称排序列出所有profiles
func (pm *ProfileManager) ListProfiles() []string {
	names := make([]string, 0, len(pm.profiles))
	for name := range pm.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SaveProfile 保存profile
func (pm *ProfileManager) SaveProfile(profile *Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if _, err := ParseEnvironment(string(profile.Network)); err != nil {
		return err
	}
	applyProfileDefaults(profile)

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if err := os.MkdirAll(pm.profilesDir(), 0700); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pm.profilesDir(), profile.Name+".json"), data, 0600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	pm.profiles[profile.Name] = profile
	return nil
}

// SwitchProfile 切换profile
func (pm *ProfileManager) SwitchProfile(name string) error {
	if _, exists := pm.profiles[name]; !exists {
		return fmt.Errorf("profile not found: %s", name)
	}

	pm.currentProfile = name
	return pm.saveCurrentProfile()
}

// DeleteProfile 删除profile，不能删除当前profile
func (pm *ProfileManager) DeleteProfile(name string) error {
	if name == pm.currentProfile {
		return fmt.Errorf("cannot delete current profile")
	}

	profilePath := filepath.Join(pm.profilesDir(), name+".json")
	if err := os.Remove(profilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete profile file: %w", err)
	}

	delete(pm.profiles, name)
	return nil
}

// LoadRegistry 返回 profile 生效的注册表：内置表合并可选覆盖文件
func (p *Profile) LoadRegistry() (*Registry, error) {
	base := DefaultRegistry()
	if p.RegistryFile == "" {
		return base, nil
	}
	return LoadRegistryFile(base, p.RegistryFile)
}
