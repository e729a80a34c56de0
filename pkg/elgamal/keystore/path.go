package keystore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
)

// SecurePath resolves path against base and rejects it if it escapes base.
// An empty base means the working directory. The absolute path is returned.
func SecurePath(base, path string) (string, error) {
	const op = "SecurePath"
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", elgamal.WrapIO(op, err)
		}
		base = wd
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", elgamal.WrapIO(op, err)
	}
	absPath := filepath.Clean(path)
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(absBase, absPath)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", elgamal.Errorf(op, elgamal.ErrInvalidParameter, "path %q: %v", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", elgamal.Errorf(op, elgamal.ErrInvalidParameter, "path %q escapes %s", path, absBase)
	}
	return absPath, nil
}
