package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressOf(t *testing.T) {
	r := DefaultRegistry()

	pkg := r.LatestPackageAddress(Testnet)
	assert.Equal(t, r.PackageAddress(Testnet, "v4"), pkg)
	assert.NotEmpty(t, r.AddressOf(Testnet, RolePlatform))
	assert.NotEmpty(t, r.AddressOf(Testnet, RoleTransferPolicy))

	// 未部署环境返回空字符串而不是报错
	assert.Empty(t, r.LatestPackageAddress(Mainnet))
	assert.Empty(t, r.AddressOf(Mainnet, RolePlatform))
	assert.False(t, r.Available(Mainnet, RolePackage))
	assert.True(t, r.Available(Testnet, RolePackage, RolePlatform, RoleTransferPolicy))

	assert.Empty(t, r.AddressOf(Environment("localnet"), RolePackage))
	assert.Empty(t, r.AddressOf(Testnet, Role("nope")))
}

func TestLatestIsExplicitPointer(t *testing.T) {
	r, err := NewRegistry(map[Environment]RegistryEntry{
		Testnet: {
			Versions: []PackageVersion{
				{Label: "v9", Address: "0x9"},
				{Label: "v10", Address: "0xa"},
			},
			Latest: "v10",
		},
	})
	require.NoError(t, err)

	// "v9" > "v10" 按字典序，但 Latest 指针优先
	assert.Equal(t, "0xa", r.LatestPackageAddress(Testnet))
	assert.Equal(t, []string{"v9", "v10"}, r.Versions(Testnet))
}

func TestNewRegistryRejectsDanglingLatest(t *testing.T) {
	_, err := NewRegistry(map[Environment]RegistryEntry{
		Devnet: {Versions: []PackageVersion{{Label: "v1", Address: "0x1"}}, Latest: "v2"},
	})
	assert.ErrorIs(t, err, ErrLatestMissing)
}

func TestTargetAndStructType(t *testing.T) {
	r := DefaultRegistry()
	pkg := r.LatestPackageAddress(Devnet)

	assert.Equal(t, "ticket::purchase_ticket", ModuleFunctionTarget(ModuleTicket, FnTicketPurchase))
	assert.Equal(t, pkg+"::ticket::purchase_ticket", r.Target(Devnet, ModuleTicket, FnTicketPurchase))
	assert.Empty(t, r.Target(Mainnet, ModuleTicket, FnTicketPurchase))
	assert.Equal(t, "0x1::user::UserCap", StructType("0x1", ModuleUser, StructUserCap))
}

func TestMergeAccumulatesVersions(t *testing.T) {
	base := DefaultRegistry()

	merged, err := base.Merge(Testnet, RegistryEntry{
		Versions: []PackageVersion{{Label: "v5", Address: "0x55"}},
		Latest:   "v5",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5"}, merged.Versions(Testnet))
	assert.Equal(t, "0x55", merged.LatestPackageAddress(Testnet))
	// 单例地址保持不变
	assert.Equal(t, base.AddressOf(Testnet, RolePlatform), merged.AddressOf(Testnet, RolePlatform))
	// 原注册表不受影响
	assert.Equal(t, base.PackageAddress(Testnet, "v4"), base.LatestPackageAddress(Testnet))

	_, err = base.Merge(Testnet, RegistryEntry{
		Versions: []PackageVersion{{Label: "v1", Address: "0xdead"}},
	})
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestMergeDeploysMainnet(t *testing.T) {
	merged, err := DefaultRegistry().Merge(Mainnet, RegistryEntry{
		Versions: []PackageVersion{{Label: "v1", Address: "0x77"}},
		Latest:   "v1",
		Platform: "0x78",
	})
	require.NoError(t, err)
	assert.True(t, merged.Available(Mainnet, RolePackage, RolePlatform))
	assert.False(t, merged.Available(Mainnet, RoleTransferPolicy))
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	content := `
environments:
  devnet:
    versions:
      - label: v2
        address: "0x22"
    latest: v2
    transfer_policy: "0x33"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	r, err := LoadRegistryFile(DefaultRegistry(), path)
	require.NoError(t, err)
	assert.Equal(t, "0x22", r.LatestPackageAddress(Devnet))
	assert.Equal(t, "0x33", r.AddressOf(Devnet, RoleTransferPolicy))
	assert.Equal(t, []string{"v1", "v2"}, r.Versions(Devnet))

	_, err = ParseRegistryOverrides(DefaultRegistry(), []byte("environments:\n  localnet: {}\n"))
	assert.ErrorIs(t, err, ErrUnknownEnvironment)
}

func TestMarshalRegistryRoundTrip(t *testing.T) {
	data, err := MarshalRegistry(DefaultRegistry())
	require.NoError(t, err)

	empty, err := NewRegistry(nil)
	require.NoError(t, err)
	r, err := ParseRegistryOverrides(empty, data)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistry().LatestPackageAddress(Testnet), r.LatestPackageAddress(Testnet))
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000002", NormalizeAddress("0x2"))
	assert.Equal(t, NormalizeAddress("0xABC"), NormalizeAddress("abc"))
	assert.True(t, SameAddress("0x6", ClockObjectID))
	assert.False(t, SameAddress("", ""))

	b, err := ParseAddress("0x2")
	require.NoError(t, err)
	assert.Equal(t, byte(2), b[31])

	_, err = ParseAddress("0xzz")
	assert.Error(t, err)
}

func TestParseEnvironment(t *testing.T) {
	env, err := ParseEnvironment(" TestNet ")
	require.NoError(t, err)
	assert.Equal(t, Testnet, env)
	assert.Equal(t, "https://fullnode.testnet.sui.io:443", env.RPCEndpoint())

	_, err = ParseEnvironment("localnet")
	assert.ErrorIs(t, err, ErrUnknownEnvironment)
}
