package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/felixgeelhaar/markup/internal/errors"
)

// TokenKey is the name under which the bearer token is persisted.
const TokenKey = "markup-token"

// TokenFileName is the file inside the MarkUp home holding persisted tokens.
const TokenFileName = "auth.json"

// TokenStore persists the bearer token between runs.
// Load returns "" with a nil error when nothing is stored.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore returns a store seeded with token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// FileTokenStore stores the token in <dir>/auth.json with mode 0600.
// When a passphrase is set the value is encrypted with AES-GCM.
type FileTokenStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
}

// NewFileTokenStore creates a file-backed token store in dir.
func NewFileTokenStore(dir, passphrase string) *FileTokenStore {
	return &FileTokenStore{
		path:       filepath.Join(dir, TokenFileName),
		passphrase: passphrase,
	}
}

// Path returns the location of the token file.
func (f *FileTokenStore) Path() string {
	return f.path
}

// Encrypted reports whether newly saved tokens are encrypted.
func (f *FileTokenStore) Encrypted() bool {
	return f.passphrase != ""
}

func (f *FileTokenStore) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", err
	}

	value := entries[TokenKey]
	if !strings.HasPrefix(value, encryptedPrefix) {
		return value, nil
	}
	if f.passphrase == "" {
		return "", errors.New(errors.ErrCodeCryptoFailed, "stored token is encrypted").
			WithSuggestion("Set MARKUP_TOKEN_PASSPHRASE to the passphrase used at sign-in").
			WithSuggestion("Or run 'markup auth logout' and sign in again")
	}

	token, err := decrypt(f.passphrase, strings.TrimPrefix(value, encryptedPrefix))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeCryptoFailed, "failed to decrypt stored token", err).
			WithSuggestion("Check MARKUP_TOKEN_PASSPHRASE")
	}
	return token, nil
}

func (f *FileTokenStore) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking sign-in.
		entries = map[string]string{}
	}

	value := token
	if f.passphrase != "" {
		sealed, err := encrypt(f.passphrase, token)
		if err != nil {
			return errors.Wrap(errors.ErrCodeCryptoFailed, "failed to encrypt token", err)
		}
		value = encryptedPrefix + sealed
	}
	entries[TokenKey] = value

	return f.write(entries)
}

func (f *FileTokenStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		entries = map[string]string{}
	}
	delete(entries, TokenKey)

	if len(entries) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to remove token file", err)
		}
		return nil
	}
	return f.write(entries)
}

func (f *FileTokenStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read %s", f.path), err)
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.NewFileUnmarshalError(f.path, "JSON", err)
	}
	return entries, nil
}

// write replaces the token file atomically.
func (f *FileTokenStore) write(entries map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed, fmt.Sprintf("failed to create %s", dir), err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal, "failed to marshal tokens", err)
	}

	tmp, err := os.CreateTemp(dir, ".auth-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to create temp token file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to restrict token file", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write token file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to write token file", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "failed to replace token file", err)
	}
	return nil
}
