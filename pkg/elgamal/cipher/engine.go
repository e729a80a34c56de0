package cipher

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/big"
	"os"

	"github.com/google/uuid"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/keys"
	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal/logging"
)

// ctxCheckInterval is how many bytes are processed between context checks.
const ctxCheckInterval = 1024

var maxByte = big.NewInt(255)

// Engine encrypts and decrypts streams. It holds only immutable options and
// may be reused across calls.
type Engine struct {
	rand   io.Reader
	logger logging.Logger
	mode   SessionMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the randomness source for session keys. Nil means
// crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// WithLogger routes notices to l.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSessionMode selects how session keys are chosen.
func WithSessionMode(m SessionMode) Option {
	return func(e *Engine) { e.mode = m }
}

// NewEngine returns an Engine using SessionPerMessage unless configured
// otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{mode: SessionPerMessage}
	for _, opt := range opts {
		opt(e)
	}
	e.rand = elgamal.Reader(e.rand)
	e.logger = logging.OrDiscard(e.logger)
	return e
}

// Mode returns the engine's session mode.
func (e *Engine) Mode() SessionMode {
	return e.mode
}

// Encrypt reads plaintext bytes from src until EOF and writes one (alpha,
// beta) pair per byte to dst. It returns the number of bytes encrypted. The
// bundle needs P, G and Y, plus K under SessionFixed.
func (e *Engine) Encrypt(ctx context.Context, b *keys.KeyBundle, src io.Reader, dst io.Writer) (int, error) {
	const op = "Encrypt"
	if err := e.checkEncrypt(b); err != nil {
		return 0, err
	}
	log := e.logger.With("op", op, "op_id", uuid.NewString())
	log.Info(ctx, "encrypting", "mode", e.mode.String(), "bits", b.P.BitLen())

	s, err := e.sessionFor(ctx, b)
	if err != nil {
		return 0, e.fail(ctx, log, err)
	}

	in := bufio.NewReader(src)
	out := NewPairWriter(dst)
	for {
		if out.Count()%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return out.Count(), e.fail(ctx, log, &elgamal.Error{Op: op, Err: err})
			}
		}
		m, err := in.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out.Count(), e.fail(ctx, log, elgamal.WrapIO(op, err))
		}
		if e.mode == SessionPerByte && out.Count() > 0 {
			if s, err = e.sessionFor(ctx, b); err != nil {
				return out.Count(), e.fail(ctx, log, err)
			}
		}
		if err := out.WritePair(s.alpha, s.beta(m)); err != nil {
			return out.Count(), e.fail(ctx, log, err)
		}
	}
	if err := out.Flush(); err != nil {
		return out.Count(), e.fail(ctx, log, err)
	}

	log.Info(ctx, "encrypted", "bytes", out.Count())
	return out.Count(), nil
}

// Decrypt reads (alpha, beta) pairs from src and writes one plaintext byte
// per pair to dst. It returns the number of bytes recovered. The bundle needs
// P and X. An empty stream fails with ErrEmptyInput. A pair with alpha
// outside [1, p-1] or beta not below p fails with ErrMalformedCiphertext, and
// one that decrypts to a value above 255 fails with ErrOutOfRangeResult. dst
// may have received part of the output when an error is returned.
func (e *Engine) Decrypt(ctx context.Context, b *keys.KeyBundle, src io.Reader, dst io.Writer) (int, error) {
	const op = "Decrypt"
	if !b.HasPrivate() {
		return 0, elgamal.Errorf(op, elgamal.ErrKeysNotConfigured, "decryption needs p and x")
	}
	if !keys.ValidP(b.P) || !keys.ValidX(b.X, b.P) {
		return 0, elgamal.Errorf(op, elgamal.ErrInvalidKey, "p or x out of range")
	}
	log := e.logger.With("op", op, "op_id", uuid.NewString())
	log.Info(ctx, "decrypting", "bits", b.P.BitLen())

	in := NewPairReader(src)
	out := bufio.NewWriter(dst)
	var lastAlpha, inverse *big.Int
	written := 0
	for {
		if written%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return written, e.fail(ctx, log, &elgamal.Error{Op: op, Err: err})
			}
		}
		alpha, beta, err := in.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, e.fail(ctx, log, err)
		}

		if fault := pairFault(b.P, alpha, beta); fault != "" {
			err := elgamal.Errorf(op, elgamal.ErrMalformedCiphertext, "pair %d: %s", in.Count(), fault)
			return written, e.fail(ctx, log, err)
		}
		// alpha repeats for every byte of a per-message ciphertext.
		if lastAlpha == nil || alpha.Cmp(lastAlpha) != 0 {
			lastAlpha, inverse = alpha, inverseShared(b, alpha)
		}
		m := new(big.Int).Mul(beta, inverse)
		m.Mod(m, b.P)
		if m.Cmp(maxByte) > 0 {
			err := elgamal.Errorf(op, elgamal.ErrOutOfRangeResult, "pair %d decrypted to a %d-bit value", in.Count(), m.BitLen())
			return written, e.fail(ctx, log, err)
		}
		if err := out.WriteByte(byte(m.Uint64())); err != nil {
			return written, e.fail(ctx, log, elgamal.WrapIO(op, err))
		}
		written++
	}
	if in.Count() == 0 {
		return 0, e.fail(ctx, log, elgamal.Errorf(op, elgamal.ErrEmptyInput, "no ciphertext pairs"))
	}
	if err := out.Flush(); err != nil {
		return written, e.fail(ctx, log, elgamal.WrapIO(op, err))
	}

	log.Info(ctx, "decrypted", "bytes", written)
	return written, nil
}

// EncryptSource encrypts a fresh stream opened from src.
func (e *Engine) EncryptSource(ctx context.Context, b *keys.KeyBundle, src ByteSource, dst io.Writer) (int, error) {
	rc, err := src()
	if err != nil {
		return 0, elgamal.WrapIO("EncryptSource", err)
	}
	defer rc.Close()
	return e.Encrypt(ctx, b, rc, dst)
}

// EncryptFile encrypts the file at inPath into a new ciphertext file at
// outPath.
func (e *Engine) EncryptFile(ctx context.Context, b *keys.KeyBundle, inPath, outPath string) (int, error) {
	return e.transformFile(ctx, inPath, outPath, func(src io.Reader, dst io.Writer) (int, error) {
		return e.Encrypt(ctx, b, src, dst)
	})
}

// DecryptFile decrypts the ciphertext file at inPath into outPath.
func (e *Engine) DecryptFile(ctx context.Context, b *keys.KeyBundle, inPath, outPath string) (int, error) {
	return e.transformFile(ctx, inPath, outPath, func(src io.Reader, dst io.Writer) (int, error) {
		return e.Decrypt(ctx, b, src, dst)
	})
}

func (e *Engine) transformFile(ctx context.Context, inPath, outPath string, run func(io.Reader, io.Writer) (int, error)) (n int, err error) {
	const op = "transformFile"
	rc, err := FileSource(inPath)()
	if err != nil {
		return 0, elgamal.WrapIO(op, err)
	}
	defer rc.Close()

	out, err := os.Create(outPath) // #nosec G304 -- path chosen by the caller
	if err != nil {
		return 0, elgamal.WrapIO(op, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = elgamal.WrapIO(op, cerr)
		}
	}()
	return run(rc, out)
}

func (e *Engine) checkEncrypt(b *keys.KeyBundle) error {
	const op = "Encrypt"
	if !b.HasPublic() {
		return elgamal.Errorf(op, elgamal.ErrKeysNotConfigured, "encryption needs p, g and y")
	}
	if !keys.ValidP(b.P) {
		return elgamal.Errorf(op, elgamal.ErrInvalidKey, "p must exceed 256")
	}
	if e.mode == SessionFixed {
		if b.K == nil {
			return elgamal.Errorf(op, elgamal.ErrKeysNotConfigured, "fixed session mode needs k")
		}
		if !keys.ValidK(b.K, b.P) {
			return elgamal.Errorf(op, elgamal.ErrInvalidKey, "k outside (1, p) or not coprime to p")
		}
	}
	return nil
}

func (e *Engine) sessionFor(ctx context.Context, b *keys.KeyBundle) (session, error) {
	if e.mode == SessionFixed {
		return newSession(b, b.K), nil
	}
	k, err := freshSessionKey(ctx, e.rand, b.P)
	if err != nil {
		return session{}, err
	}
	defer elgamal.ZeroizeInt(k)
	return newSession(b, k), nil
}

func (e *Engine) fail(ctx context.Context, log logging.Logger, err error) error {
	log.Error(ctx, "cipher operation failed", "error", err)
	return err
}
