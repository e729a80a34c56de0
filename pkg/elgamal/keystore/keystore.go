package keystore

import (
	"bufio"
	"bytes"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/keys"
)

const (
	// PrivateFile is the private key file name inside a key directory.
	PrivateFile = "id_elgamal"
	// PublicFile is the public key file name inside a key directory.
	PublicFile = "id_elgamal.pub"

	privateMode os.FileMode = 0o600
	publicMode  os.FileMode = 0o644
	dirMode     os.FileMode = 0o700
)

// Paths returns the private and public file paths inside dir.
func Paths(dir string) (privPath, pubPath string) {
	return filepath.Join(dir, PrivateFile), filepath.Join(dir, PublicFile)
}

// Save writes b into dir, creating the directory if needed.
func Save(dir string, b *keys.KeyBundle) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return elgamal.WrapIO("Save", err)
	}
	privPath, pubPath := Paths(dir)
	return SaveFiles(privPath, pubPath, b)
}

// Load reads the bundle stored in dir.
func Load(dir string) (*keys.KeyBundle, error) {
	privPath, pubPath := Paths(dir)
	return LoadFiles(privPath, pubPath)
}

// SaveFiles writes x to privPath and p, g, y to pubPath. Each file is
// replaced atomically.
func SaveFiles(privPath, pubPath string, b *keys.KeyBundle) error {
	const op = "SaveFiles"
	if !b.HasPublic() || !b.HasPrivate() {
		return elgamal.Errorf(op, elgamal.ErrKeysNotConfigured, "saving needs p, g, y and x")
	}
	if err := writeValues(pubPath, publicMode, b.P, b.G, b.Y); err != nil {
		return elgamal.WrapIO(op, err)
	}
	if err := writeValues(privPath, privateMode, b.X); err != nil {
		return elgamal.WrapIO(op, err)
	}
	return nil
}

// LoadFiles reads a bundle from the two key files. K is left unset.
func LoadFiles(privPath, pubPath string) (*keys.KeyBundle, error) {
	pub, err := LoadPublic(pubPath)
	if err != nil {
		return nil, err
	}
	x, err := readValues("LoadFiles", privPath, 1)
	if err != nil {
		return nil, err
	}
	return &keys.KeyBundle{P: pub.P, G: pub.G, Y: pub.Y, X: x[0]}, nil
}

// LoadPublic reads only the public file, for callers that just encrypt.
func LoadPublic(pubPath string) (keys.PublicKey, error) {
	v, err := readValues("LoadPublic", pubPath, 3)
	if err != nil {
		return keys.PublicKey{}, err
	}
	return keys.PublicKey{P: v[0], G: v[1], Y: v[2]}, nil
}

func writeValues(path string, mode os.FileMode, values ...*big.Int) (err error) {
	var buf bytes.Buffer
	defer func() { elgamal.ZeroizeBytes(buf.Bytes()) }()
	for _, v := range values {
		buf.WriteString(v.String())
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readValues(op, path string, want int) ([]*big.Int, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the caller
	if err != nil {
		return nil, elgamal.WrapIO(op, err)
	}
	defer elgamal.ZeroizeBytes(data)

	var values []*big.Int
	s := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}
		if len(values) == want {
			return nil, malformed(op, path, "more than %d values", want)
		}
		v, ok := new(big.Int).SetString(text, 10)
		if !ok || v.Sign() < 0 {
			return nil, malformed(op, path, "line %d is not a non-negative decimal", line)
		}
		values = append(values, v)
	}
	if err := s.Err(); err != nil {
		return nil, malformed(op, path, "%v", err)
	}
	if len(values) != want {
		return nil, malformed(op, path, "found %d of %d values", len(values), want)
	}
	return values, nil
}

func malformed(op, path, format string, args ...any) error {
	return elgamal.Errorf(op, elgamal.ErrMalformedKeyFile, "%s: %s", filepath.Base(path), fmt.Sprintf(format, args...))
}
