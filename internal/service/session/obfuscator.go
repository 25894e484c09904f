package session

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

	"golang.org/x/crypto/hkdf"
)

// appSalt is mixed into every snapshot key.
const appSalt = "farmacia-dpsp-2024"

// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("session: corrupt user snapshot")

// Fingerprint describes the environment the snapshot key is derived from.
type Fingerprint struct {
	UserAgent string
	Language  string
	Platform  string
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%s-%s-%s", f.UserAgent, f.Language, f.Platform)
}

// Obfuscator hides the cached user record from casual inspection of the
// session store. The key is rebuilt from public facts about the machine, so
// anyone who can read the store and knows the fingerprint can decode it. It
// is not a secret store.
type Obfuscator struct {
	aead cipher.AEAD
}

// NewObfuscator derives a 256-bit AES-GCM key from the fingerprint.
func NewObfuscator(fp Fingerprint) (*Obfuscator, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(fp.String()), []byte(appSalt), []byte("farmacia session snapshot"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive snapshot key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init snapshot cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init snapshot gcm: %w", err)
	}
	return &Obfuscator{aead: aead}, nil
}

// Seal encodes plaintext as base64(nonce || ciphertext).
func (o *Obfuscator) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, o.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("snapshot nonce: %w", err)
	}
	sealed := o.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (o *Obfuscator) Open(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	n := o.aead.NonceSize()
	if len(raw) < n+o.aead.Overhead() {
		return nil, fmt.Errorf("%w: too short", ErrCorruptSnapshot)
	}
	plain, err := o.aead.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return plain, nil
}

// SealObject JSON-encodes v and seals it.
func (o *Obfuscator) SealObject(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return o.Seal(data)
}

// OpenObject opens encoded and decodes the JSON into v.
func (o *Obfuscator) OpenObject(encoded string, v any) error {
	data, err := o.Open(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return nil
}
