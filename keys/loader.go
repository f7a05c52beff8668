// Package keys is a file-backed software keystore for P-256 signing keys.
//
// It stands in for the hardware keystore of a device on desktop and in tests:
// the CLI signs challenges with it and the verifier resolves public keys from
// it.
//
// # Key File Format
//
// Keys are stored in a directory (DefaultDir, ~/.config/securesign/keys unless
// SECURESIGN_KEY_DIR is set) with two files per key:
//
//	<key-name>.public  - base64url SubjectPublicKeyInfo DER, no padding
//	<key-name>.private - Format: "hexkey:p256" where hexkey is the private scalar
//
// # Loading Keys
//
//	provider := &keys.FileKeyProvider{KeyName: "device-key"}
//	priv, err := provider.GetSigningKey(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Every error carries an errcode code: KeyNotFound for a missing key,
// InvalidKeyID for a malformed name and KeyAlreadyExists when generating over
// an existing key.
package keys

import (
	"context"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
)

const (
	// EnvKeyDir overrides the default key directory.
	EnvKeyDir = "SECURESIGN_KEY_DIR"

	curveName = "p256"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]{0,127}$`)

// DefaultDir returns $SECURESIGN_KEY_DIR or ~/.config/securesign/keys.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvKeyDir); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "securesign", "keys"), nil
}

// ValidateName checks that name is usable as a key file name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errcode.Errorf(errcode.InvalidKeyID, "invalid key name %q", name)
	}
	return nil
}

func keyPaths(dir, name string) (private, public string) {
	base := filepath.Join(dir, name)
	return base + ".private", base + ".public"
}

// GenerateKey creates a new P-256 key pair named name in dir.
func GenerateKey(dir, name string) (*ecdsa.PrivateKey, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	privatePath, publicPath := keyPaths(dir, name)
	for _, p := range []string{privatePath, publicPath} {
		if _, err := os.Stat(p); err == nil {
			return nil, errcode.Errorf(errcode.KeyAlreadyExists, "key %q already exists", name)
		}
	}

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errcode.Wrap(errcode.KeyGenerationFailed, "failed to generate key", err)
	}

	sec1, err := crypto.MarshalSec1(&priv.PublicKey)
	if err != nil {
		return nil, err
	}
	spki, err := crypto.Sec1ToSPKIBase64URL(sec1)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errcode.Wrap(errcode.KeyGenerationFailed, "failed to create key directory", err)
	}

	scalar := priv.D.FillBytes(make([]byte, crypto.ScalarSize))
	if err := writeExclusive(privatePath, hex.EncodeToString(scalar)+":"+curveName+"\n", 0o600); err != nil {
		return nil, err
	}
	if err := writeExclusive(publicPath, spki+"\n", 0o644); err != nil {
		_ = os.Remove(privatePath)
		return nil, err
	}
	return priv, nil
}

func writeExclusive(path, content string, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if errors.Is(err, fs.ErrExist) {
		return errcode.Errorf(errcode.KeyAlreadyExists, "key file %s already exists", filepath.Base(path))
	}
	if err != nil {
		return errcode.Wrap(errcode.KeyGenerationFailed, "failed to create key file", err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return errcode.Wrap(errcode.KeyGenerationFailed, "failed to write key file", err)
	}
	if err := f.Close(); err != nil {
		return errcode.Wrap(errcode.KeyGenerationFailed, "failed to write key file", err)
	}
	return nil
}

func readKeyFile(path, name string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errcode.Errorf(errcode.KeyNotFound, "key %q not found", name)
	}
	if err != nil {
		return "", errcode.Wrap(errcode.KeychainQueryFailed, "failed to read key file", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// LoadSigningKey loads the private key named name from dir.
func LoadSigningKey(dir, name string) (*ecdsa.PrivateKey, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	privatePath, _ := keyPaths(dir, name)
	content, err := readKeyFile(privatePath, name)
	if err != nil {
		return nil, err
	}

	// Parse private key format: "hexkey:curve"
	privateKeyHex, curve, ok := strings.Cut(content, ":")
	if !ok || strings.Contains(curve, ":") {
		return nil, errcode.New(errcode.InvalidKeyReference, "invalid private key format, expected 'hexkey:curve'")
	}
	if curve != curveName {
		return nil, errcode.Errorf(errcode.AlgorithmNotSupported, "unsupported curve: %s, only p256 is supported", curve)
	}

	scalar, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidKeyReference, "failed to decode private key hex", err)
	}
	// Rejects zero, out of range and wrongly sized scalars.
	if _, err := ecdh.P256().NewPrivateKey(scalar); err != nil {
		return nil, errcode.Wrap(errcode.InvalidKeyReference, "invalid p256 private key", err)
	}

	ecdsaCurve := elliptic.P256()
	privateKey := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: ecdsaCurve,
		},
		D: new(big.Int).SetBytes(scalar),
	}
	privateKey.X, privateKey.Y = ecdsaCurve.ScalarBaseMult(scalar)

	return privateKey, nil
}

// LoadPublicKey loads the public key named name from dir.
func LoadPublicKey(dir, name string) (*ecdsa.PublicKey, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	_, publicPath := keyPaths(dir, name)
	content, err := readKeyFile(publicPath, name)
	if err != nil {
		return nil, err
	}
	return crypto.ParseSPKIBase64URL(content)
}

// PublicKeySPKI returns the stored base64url SPKI of the key named name.
func PublicKeySPKI(dir, name string) (string, error) {
	pub, err := LoadPublicKey(dir, name)
	if err != nil {
		return "", err
	}
	sec1, err := crypto.MarshalSec1(pub)
	if err != nil {
		return "", err
	}
	return crypto.Sec1ToSPKIBase64URL(sec1)
}

// DeleteKey removes both files of the key named name.
func DeleteKey(dir, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	var removed int
	privatePath, publicPath := keyPaths(dir, name)
	for _, p := range []string{privatePath, publicPath} {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			return errcode.Wrap(errcode.KeyDeletionFailed, "failed to delete key file", err)
		}
	}
	if removed == 0 {
		return errcode.Errorf(errcode.KeyNotFound, "key %q not found", name)
	}
	return nil
}

// FileKeyProvider loads a signing key from the keystore directory.
type FileKeyProvider struct {
	// Dir defaults to DefaultDir when empty.
	Dir     string
	KeyName string
}

// GetSigningKey loads the private key from files
func (f *FileKeyProvider) GetSigningKey(ctx context.Context) (*ecdsa.PrivateKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := f.dir()
	if err != nil {
		return nil, err
	}
	return LoadSigningKey(dir, f.KeyName)
}

// KeyID returns the key name, which doubles as the challenge kid.
func (f *FileKeyProvider) KeyID() string {
	return f.KeyName
}

func (f *FileKeyProvider) dir() (string, error) {
	if f.Dir != "" {
		return f.Dir, nil
	}
	return DefaultDir()
}
