package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suiticket/v1/client/core/config"
	"github.com/suiticket/v1/client/core/fees"
)

func TestParseSaleEnd(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := parseSaleEnd("", 72*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(72*time.Hour), got)

	got, err = parseSaleEnd("2026-03-01T12:00:00Z", 0, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got)

	_, err = parseSaleEnd("", 0, now)
	assert.Error(t, err)
	_, err = parseSaleEnd("2026-03-01T12:00:00Z", time.Hour, now)
	assert.Error(t, err)
	_, err = parseSaleEnd("tomorrow", 0, now)
	assert.Error(t, err)
}

func TestParseNetworks(t *testing.T) {
	envs, err := parseNetworks("")
	require.NoError(t, err)
	assert.Equal(t, config.Environments(), envs)

	envs, err = parseNetworks("testnet, mainnet,testnet")
	require.NoError(t, err)
	assert.Equal(t, []config.Environment{config.Testnet, config.Mainnet}, envs)

	_, err = parseNetworks("localnet")
	assert.Error(t, err)
}

func TestParseBP(t *testing.T) {
	bp, err := parseBP("250")
	require.NoError(t, err)
	assert.Equal(t, uint16(250), bp)

	_, err = parseBP("70000")
	assert.Error(t, err)
	_, err = parseBP("-1")
	assert.Error(t, err)
}

func TestPolicyTable(t *testing.T) {
	rows := policyTable(fees.PolicyConfig{}.View()).TableRows()
	require.Len(t, rows, 4)
	assert.Equal(t, "未设置", rows[1][1])
	assert.Equal(t, "原价的 10000 bp", rows[2][2])
}

func TestProfileForDefaults(t *testing.T) {
	var err error
	profileMgr, err = config.NewProfileManager(t.TempDir())
	require.NoError(t, err)
	globalFlags = GlobalFlags{RegistryFile: "override.yaml"}
	t.Cleanup(func() { globalFlags = GlobalFlags{} })

	p, err := profileFor(config.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, config.Mainnet, p.Network)
	assert.Equal(t, "override.yaml", p.RegistryFile)

	stored, err := profileMgr.GetProfile(p.Name)
	require.NoError(t, err)
	assert.Empty(t, stored.RegistryFile, "override must not leak into the saved profile")
}
