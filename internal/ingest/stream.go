package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"io"
)

// ErrTooLarge is returned once more than the reader's limit has been read.
var ErrTooLarge = errors.New("file exceeds size limit")

// Reader is an io.Reader that accumulates sha256 and total byte count in-flight.
type Reader struct {
	r     io.Reader
	h     hash.Hash
	size  int64
	limit int64
}

// NewLimitedReader wraps r with in-flight sha256 and size tracking. Reads
// fail with ErrTooLarge after limit bytes. A limit of zero or less means no
// limit.
func NewLimitedReader(r io.Reader, limit int64) *Reader {
	return &Reader{r: r, h: sha256.New(), limit: limit}
}

func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	if n > 0 {
		r.h.Write(p[:n]) //nolint:errcheck
		r.size += int64(n)
	}
	if r.limit > 0 && r.size > r.limit {
		return n, ErrTooLarge
	}
	return
}

// SHA256 returns the hex-encoded sha256 of all bytes read so far.
func (r *Reader) SHA256() string {
	return hex.EncodeToString(r.h.Sum(nil))
}

// Size returns the total bytes read so far.
func (r *Reader) Size() int64 { return r.size }
