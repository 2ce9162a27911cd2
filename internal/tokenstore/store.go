// Package tokenstore persists the auth token across restarts.
package tokenstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// per-user token file (0600) with AES-GCM obfuscation. Not a replacement
// for an OS keychain but avoids a plain-text credential on disk.

const fileName = "token.json"

// ErrNotFound is returned by Load when no token has been saved.
var ErrNotFound = errors.New("token not found")

type tokenFile struct {
	Token string `json:"token"` // base64(ciphertext)
}

// Store reads and writes the single persisted token.
type Store struct {
	dir string // empty = <user config dir>/outlay
}

func New() *Store {
	return &Store{}
}

// NewAt uses dir instead of the user config dir. Used by tests.
func NewAt(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists the token, replacing any previous one.
func (s *Store) Save(token string) error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	ct, err := encrypt([]byte(token))
	if err != nil {
		return err
	}
	tf := tokenFile{Token: base64.StdEncoding.EncodeToString(ct)}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load returns the persisted token, or ErrNotFound when none exists.
func (s *Store) Load() (string, error) {
	path, err := s.filePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", err
	}
	if tf.Token == "" {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(tf.Token)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// Clear removes the persisted token. Clearing an absent token is fine.
func (s *Store) Clear() error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) filePath() (string, error) {
	dir := s.dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "outlay")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func masterKey() []byte {
	user := os.Getenv("USER")
	base := fmt.Sprintf("outlay-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func encrypt(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
