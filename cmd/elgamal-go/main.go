// Command elgamal-go generates ElGamal keys and encrypts or decrypts files
// with them.
//
// Usage:
//
//	elgamal-go keygen  [-bits N] [-dir D] [-plain] [-strict]
//	elgamal-go encrypt -in FILE -out FILE [-dir D] [-mode M] [-k K]
//	elgamal-go decrypt -in FILE -out FILE [-dir D]
//	elgamal-go preview -in FILE [-bits N]
//	elgamal-go version
//
// Defaults come from ELGAMAL_* environment variables or a .env file in the
// working directory. Input and output paths must stay inside the working
// directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"os/signal"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/cipher"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/keys"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/keystore"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every subcommand needs.
type app struct {
	cfg    elgamal.Config
	stdout io.Writer
	stderr io.Writer
	logger logging.Logger
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cfg, err := elgamal.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	var cmd func(context.Context, []string) error
	switch args[0] {
	case "keygen":
		cmd = a.keygen
	case "encrypt":
		cmd = a.encrypt
	case "decrypt":
		cmd = a.decrypt
	case "preview":
		cmd = a.preview
	case "version":
		fmt.Fprintf(stdout, "elgamal-go %s (%s)\n", elgamal.ModuleVersion(), elgamal.BuildCommit())
		return 0
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	if err := cmd(ctx, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: elgamal-go <keygen|encrypt|decrypt|preview|version> [flags]")
}

// flags returns a FlagSet for name with the flags every command shares.
func (a *app) flags(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "log debug notices to stderr")
	return fs, verbose
}

func (a *app) setLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	a.logger = logging.New(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
}

func (a *app) keygen(ctx context.Context, args []string) error {
	fs, verbose := a.flags("keygen")
	bits := fs.Int("bits", a.cfg.Bits, "modulus size in bits")
	dir := fs.String("dir", a.cfg.KeyDir, "directory to write id_elgamal and id_elgamal.pub")
	plain := fs.Bool("plain", false, "use a plain prime instead of a safe prime")
	strict := fs.Bool("strict", false, "fail instead of replacing invalid supplied values")
	p := fs.String("p", "", "use this decimal modulus")
	g := fs.String("g", "", "use this decimal generator")
	x := fs.String("x", "", "use this decimal private exponent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.setLogger(*verbose)

	partial := &keys.KeyBundle{}
	for _, f := range []struct {
		name, value string
		dst         **big.Int
	}{{"p", *p, &partial.P}, {"g", *g, &partial.G}, {"x", *x, &partial.X}} {
		if f.value == "" {
			continue
		}
		v, ok := new(big.Int).SetString(f.value, 10)
		if !ok {
			return fmt.Errorf("-%s: %q is not a decimal integer", f.name, f.value)
		}
		*f.dst = v
	}

	opts := []keys.Option{
		keys.WithConfig(a.cfg),
		keys.WithBits(*bits),
		keys.WithLogger(a.logger),
	}
	if *plain {
		opts = append(opts, keys.WithPlainPrimes())
	}
	if *strict {
		opts = append(opts, keys.WithStrict())
	}
	bundle, err := keys.Configure(ctx, partial, opts...)
	if err != nil {
		return err
	}
	defer bundle.Wipe()

	if err := keystore.Save(*dir, bundle); err != nil {
		return err
	}
	privPath, pubPath := keystore.Paths(*dir)
	fmt.Fprintf(a.stdout, "wrote %s and %s (%d-bit modulus)\n", privPath, pubPath, bundle.P.BitLen())
	return nil
}

func (a *app) encrypt(ctx context.Context, args []string) error {
	fs, verbose := a.flags("encrypt")
	in := fs.String("in", "", "plaintext file")
	out := fs.String("out", "", "ciphertext file")
	dir := fs.String("dir", a.cfg.KeyDir, "directory holding id_elgamal.pub")
	mode := fs.String("mode", a.cfg.SessionMode, "session key mode: per-message, per-byte or fixed")
	k := fs.String("k", "", "decimal session key for -mode fixed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.setLogger(*verbose)

	inPath, outPath, err := ioPaths(*in, *out)
	if err != nil {
		return err
	}
	sessionMode, err := cipher.ParseSessionMode(*mode)
	if err != nil {
		return err
	}
	_, pubPath := keystore.Paths(*dir)
	pub, err := keystore.LoadPublic(pubPath)
	if err != nil {
		return err
	}
	bundle := &keys.KeyBundle{P: pub.P, G: pub.G, Y: pub.Y}
	if *k != "" {
		v, ok := new(big.Int).SetString(*k, 10)
		if !ok {
			return fmt.Errorf("-k: %q is not a decimal integer", *k)
		}
		bundle.K = v
	}

	engine := cipher.NewEngine(cipher.WithLogger(a.logger), cipher.WithSessionMode(sessionMode))
	n, err := engine.EncryptFile(ctx, bundle, inPath, outPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "encrypted %d bytes to %s\n", n, outPath)
	return nil
}

func (a *app) decrypt(ctx context.Context, args []string) error {
	fs, verbose := a.flags("decrypt")
	in := fs.String("in", "", "ciphertext file")
	out := fs.String("out", "", "plaintext file")
	dir := fs.String("dir", a.cfg.KeyDir, "directory holding id_elgamal and id_elgamal.pub")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.setLogger(*verbose)

	inPath, outPath, err := ioPaths(*in, *out)
	if err != nil {
		return err
	}
	bundle, err := keystore.Load(*dir)
	if err != nil {
		return err
	}
	defer bundle.Wipe()

	engine := cipher.NewEngine(cipher.WithLogger(a.logger))
	n, err := engine.DecryptFile(ctx, bundle, inPath, outPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "decrypted %d bytes to %s\n", n, outPath)
	return nil
}

func (a *app) preview(_ context.Context, args []string) error {
	fs, verbose := a.flags("preview")
	in := fs.String("in", "", "file to preview")
	bits := fs.Int("bits", 64, "number of leading bits to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a.setLogger(*verbose)

	if *in == "" {
		return errors.New("-in is required")
	}
	path, err := keystore.SecurePath("", *in)
	if err != nil {
		return err
	}
	bitsText, err := cipher.BitPreview(cipher.FileSource(path), *bits)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, bitsText)
	return nil
}

func ioPaths(in, out string) (string, string, error) {
	if in == "" || out == "" {
		return "", "", errors.New("-in and -out are required")
	}
	inPath, err := keystore.SecurePath("", in)
	if err != nil {
		return "", "", err
	}
	outPath, err := keystore.SecurePath("", out)
	if err != nil {
		return "", "", err
	}
	if inPath == outPath {
		return "", "", errors.New("-in and -out name the same file")
	}
	return inPath, outPath, nil
}
