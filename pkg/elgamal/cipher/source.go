package cipher

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hsiuhsiu/elgamal-go/pkg/elgamal"
)

// ByteSource opens a fresh, independent byte stream on every call. Reading
// the same data twice means calling it twice; a stream is never rewound.
type ByteSource func() (io.ReadCloser, error)

// FileSource opens path for reading on every call.
func FileSource(path string) ByteSource {
	return func() (io.ReadCloser, error) {
		f, err := os.Open(path) // #nosec G304 -- path chosen by the caller
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// BytesSource serves b from memory on every call.
func BytesSource(b []byte) ByteSource {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
}

// BitPreview renders up to nbits leading bits of src as space-separated
// 8-bit groups, most significant bit first, for display next to a chosen
// file. The count is rounded up to whole bytes.
func BitPreview(src ByteSource, nbits int) (string, error) {
	const op = "BitPreview"
	if nbits <= 0 {
		return "", nil
	}
	rc, err := src()
	if err != nil {
		return "", elgamal.WrapIO(op, err)
	}
	defer rc.Close()

	buf := make([]byte, (nbits+7)/8)
	n, err := io.ReadFull(rc, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", elgamal.WrapIO(op, err)
	}

	groups := make([]string, n)
	for i, b := range buf[:n] {
		s := strconv.FormatUint(uint64(b), 2)
		groups[i] = strings.Repeat("0", 8-len(s)) + s
	}
	return strings.Join(groups, " "), nil
}
