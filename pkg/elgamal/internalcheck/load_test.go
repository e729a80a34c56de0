package internalcheck

import (
	"testing"

	"golang.org/x/tools/go/packages"
)

// corePattern covers the library packages. Tests, commands and examples are
// not part of it.
const corePattern = "github.com/hsiuhsiu/elgamal-go/pkg/elgamal/..."

func loadCore(t *testing.T) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, corePattern)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages contain errors")
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages matched %s", corePattern)
	}
	return pkgs
}
