package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/config"
)

func TestRegistryExampleMergesOntoDefaults(t *testing.T) {
	reg, err := config.ParseRegistryOverrides(config.DefaultRegistry(), RegistryExample)
	require.NoError(t, err)

	assert.Equal(t, "v5", reg.LatestVersion(config.Testnet))
	assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5"}, reg.Versions(config.Testnet))
	assert.True(t, reg.Available(config.Mainnet, config.RolePackage, config.RolePlatform,
		config.RoleTransferPolicy, config.RoleTransferPolicyCap))
}
