package elgamal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKey indicates a key field failed its validator and could not
	// be regenerated.
	ErrInvalidKey = errors.New("elgamal: invalid key")

	// ErrKeysNotConfigured indicates a cipher operation was attempted before
	// the fields it needs were configured.
	ErrKeysNotConfigured = errors.New("elgamal: keys not configured")

	// ErrEmptyInput indicates decryption was asked to consume an empty
	// ciphertext.
	ErrEmptyInput = errors.New("elgamal: empty input")

	// ErrIO indicates a read or write failure on a key or data stream.
	ErrIO = errors.New("elgamal: i/o failure")

	// ErrOutOfRangeResult indicates a decrypted value fell outside 0..255,
	// which means the wrong key or a corrupted ciphertext.
	ErrOutOfRangeResult = errors.New("elgamal: decrypted value out of byte range")

	// ErrInvalidParameter indicates an invalid argument such as a bit length
	// too small to hold a usable modulus.
	ErrInvalidParameter = errors.New("elgamal: invalid parameter")

	// ErrMaxAttempts indicates a randomized search hit its attempt cap.
	ErrMaxAttempts = errors.New("elgamal: maximum attempts exceeded")

	// ErrFactorization indicates p-1 could not be fully factored.
	ErrFactorization = errors.New("elgamal: factorization failed")

	// ErrMalformedCiphertext indicates the pair stream is not a sequence of
	// decimal (alpha, beta) lines.
	ErrMalformedCiphertext = errors.New("elgamal: malformed ciphertext")

	// ErrMalformedKeyFile indicates a persisted key file does not hold the
	// expected decimal lines.
	ErrMalformedKeyFile = errors.New("elgamal: malformed key file")
)

// Error wraps an underlying error with the operation that failed.
type Error struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *Error) Error() string {
	return fmt.Sprintf("elgamal.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns an *Error for op whose cause matches kind with errors.Is.
// The formatted detail is appended to the kind's message.
func Errorf(op string, kind error, format string, args ...any) error {
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}

// WrapIO tags err as an ErrIO failure of op. The original error stays in the
// chain so callers can still match fs.ErrNotExist and friends. A nil err
// yields nil.
func WrapIO(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIO) {
		return err
	}
	return &Error{Op: op, Err: errors.Join(ErrIO, err)}
}
