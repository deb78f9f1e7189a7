package wallet

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystorePersistsSuiFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sui_config", "sui.keystore")

	ks, err := OpenKeystore(path)
	require.NoError(t, err)
	assert.Empty(t, ks.Addresses())

	ed, err := GenerateEd25519()
	require.NoError(t, err)
	k1, err := GenerateSecp256k1()
	require.NoError(t, err)
	ks.Add(ed)
	ks.Add(k1)
	ks.Add(ed)
	require.NoError(t, ks.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []string
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	raw, err := base64.StdEncoding.DecodeString(entries[0])
	require.NoError(t, err)
	assert.Equal(t, ed.Export(), raw)

	reopened, err := OpenKeystore(path)
	require.NoError(t, err)
	assert.Equal(t, ks.Addresses(), reopened.Addresses())

	found, err := reopened.Find(strings.ToUpper(k1.Address()[2:]))
	require.NoError(t, err)
	assert.Equal(t, k1.Address(), found.Address())
}

func TestKeystoreRemove(t *testing.T) {
	ks, err := OpenKeystore(filepath.Join(t.TempDir(), "sui.keystore"))
	require.NoError(t, err)
	kp, err := GenerateEd25519()
	require.NoError(t, err)
	ks.Add(kp)

	require.NoError(t, ks.Remove(kp.Address()))
	assert.ErrorIs(t, ks.Remove(kp.Address()), ErrAccountNotFound)
	_, err = ks.Find(kp.Address())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestOpenKeystoreRejectsGarbage(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.keystore")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err := OpenKeystore(bad)
	assert.Error(t, err)

	badEntry := filepath.Join(dir, "entry.keystore")
	require.NoError(t, os.WriteFile(badEntry, []byte(`["!!!"]`), 0o600))
	_, err = OpenKeystore(badEntry)
	assert.Error(t, err)
}

func TestEncryptedBackup(t *testing.T) {
	kp, err := GenerateSecp256k1()
	require.NoError(t, err)

	backup, err := Encrypt(kp, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), backup.Address)
	assert.NotEmpty(t, backup.ID)

	restored, err := backup.Decrypt("correct horse")
	require.NoError(t, err)
	assert.Equal(t, kp.Export(), restored.Export())

	_, err = backup.Decrypt("battery staple")
	assert.ErrorIs(t, err, ErrWrongPassword)

	tampered := *backup
	tampered.Address = "0x1"
	_, err = tampered.Decrypt("correct horse")
	assert.ErrorIs(t, err, ErrWrongPassword)
}
