package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/markup/internal/errors"
)

func TestFileTokenStorePlain(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	store := NewFileTokenStore(dir, "")
	assert.False(t, store.Encrypted())

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "missing file means no token")

	require.NoError(t, store.Save("T1"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var entries map[string]string
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, "T1", entries[TokenKey])

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "T1", token)

	require.NoError(t, store.Clear())
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "clearing the only key removes the file")

	require.NoError(t, store.Clear(), "clear is idempotent")
}

func TestFileTokenStoreKeepsOtherKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TokenFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"other":"x"}`), 0600))

	store := NewFileTokenStore(dir, "")
	require.NoError(t, store.Save("T1"))
	require.NoError(t, store.Clear())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"other":"x"}`, string(data))
}

func TestFileTokenStoreEncrypted(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir, "correct horse")
	require.NoError(t, store.Save("secret-token"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-token")
	assert.Contains(t, string(data), encryptedPrefix)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)

	_, err = NewFileTokenStore(dir, "wrong").Load()
	var me *errors.MarkupError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, errors.ErrCodeCryptoFailed, me.Code)

	_, err = NewFileTokenStore(dir, "").Load()
	require.ErrorAs(t, err, &me)
	assert.Equal(t, errors.ErrCodeCryptoFailed, me.Code)
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir, "")
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	_, err := store.Load()
	assert.Equal(t, errors.KindIO, errors.KindOf(err))

	require.NoError(t, store.Save("T2"), "save replaces a corrupt file")
	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "T2", token)
}

func TestEncryptDecrypt(t *testing.T) {
	a, err := encrypt("pw", "payload")
	require.NoError(t, err)
	b, err := encrypt("pw", "payload")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "salt and nonce are random")

	got, err := decrypt("pw", a)
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	_, err = decrypt("pw", "c2hvcnQ=")
	assert.Error(t, err)
	_, err = decrypt("pw", "%%%")
	assert.Error(t, err)
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore("seed")
	token, _ := store.Load()
	assert.Equal(t, "seed", token)

	require.NoError(t, store.Save("T1"))
	token, _ = store.Load()
	assert.Equal(t, "T1", token)

	require.NoError(t, store.Clear())
	token, _ = store.Load()
	assert.Empty(t, token)
}

func TestNoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := NewFileTokenStore(dir, "")
	require.NoError(t, store.Save("T1"))
	require.NoError(t, store.Save("T2"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".auth-"), "leftover temp file %s", e.Name())
	}
}
