package cipher

import (
	"bufio"
	"errors"
	"io"
	"math/big"
	"strings"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
)

// maxLineBytes bounds a single decimal line, comfortably above the 2467
// digits of an 8192-bit value.
const maxLineBytes = 1 << 16

// PairWriter writes (alpha, beta) pairs as two decimal lines each.
type PairWriter struct {
	w     *bufio.Writer
	count int
}

// NewPairWriter returns a PairWriter buffering into w. Call Flush when done.
func NewPairWriter(w io.Writer) *PairWriter {
	return &PairWriter{w: bufio.NewWriter(w)}
}

// WritePair appends one pair.
func (pw *PairWriter) WritePair(alpha, beta *big.Int) error {
	for _, v := range []*big.Int{alpha, beta} {
		if _, err := pw.w.WriteString(v.String()); err != nil {
			return elgamal.WrapIO("PairWriter.WritePair", err)
		}
		if err := pw.w.WriteByte('\n'); err != nil {
			return elgamal.WrapIO("PairWriter.WritePair", err)
		}
	}
	pw.count++
	return nil
}

// Flush writes any buffered pairs to the underlying writer.
func (pw *PairWriter) Flush() error {
	return elgamal.WrapIO("PairWriter.Flush", pw.w.Flush())
}

// Count returns the number of pairs written.
func (pw *PairWriter) Count() int {
	return pw.count
}

// PairReader reads the line format PairWriter produces. Blank lines are
// ignored. A (0, 0) pair ends the stream the same way end of input does.
type PairReader struct {
	s     *bufio.Scanner
	line  int
	count int
	done  bool
}

// NewPairReader returns a PairReader over r.
func NewPairReader(r io.Reader) *PairReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &PairReader{s: s}
}

// Next returns the next pair, or io.EOF once the stream is exhausted.
func (pr *PairReader) Next() (alpha, beta *big.Int, err error) {
	const op = "PairReader.Next"
	if pr.done {
		return nil, nil, io.EOF
	}
	alpha, err = pr.value()
	if errors.Is(err, io.EOF) {
		pr.done = true
		return nil, nil, io.EOF
	}
	if err != nil {
		return nil, nil, err
	}
	beta, err = pr.value()
	if errors.Is(err, io.EOF) {
		return nil, nil, elgamal.Errorf(op, elgamal.ErrMalformedCiphertext, "line %d: alpha without beta", pr.line)
	}
	if err != nil {
		return nil, nil, err
	}
	if alpha.Sign() == 0 && beta.Sign() == 0 {
		pr.done = true
		return nil, nil, io.EOF
	}
	pr.count++
	return alpha, beta, nil
}

// Count returns the number of pairs returned so far.
func (pr *PairReader) Count() int {
	return pr.count
}

func (pr *PairReader) value() (*big.Int, error) {
	const op = "PairReader.Next"
	for pr.s.Scan() {
		pr.line++
		text := strings.TrimSpace(pr.s.Text())
		if text == "" {
			continue
		}
		v, ok := new(big.Int).SetString(text, 10)
		if !ok || v.Sign() < 0 {
			return nil, elgamal.Errorf(op, elgamal.ErrMalformedCiphertext, "line %d: not a non-negative decimal", pr.line)
		}
		return v, nil
	}
	if err := pr.s.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, elgamal.Errorf(op, elgamal.ErrMalformedCiphertext, "line %d: longer than %d bytes", pr.line+1, maxLineBytes)
		}
		return nil, elgamal.WrapIO(op, err)
	}
	return nil, io.EOF
}
