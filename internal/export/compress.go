package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

var Compressions = []string{CompressionNone, CompressionGzip, CompressionZstd}

// compressor wraps an output stream. Close flushes the compressed trailer
// but leaves the underlying writer open.
type compressor interface {
	Name() string
	Extension() string
	Compress(w io.Writer) (io.WriteCloser, error)
}

func compressorFor(name string) (compressor, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CompressionNone:
		return noop{}, nil
	case CompressionGzip:
		return gzipper{}, nil
	case CompressionZstd:
		return zstder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// Extension returns the file suffix the named compression conventionally
// adds, or "" for none or an unknown name.
func Extension(name string) string {
	c, err := compressorFor(name)
	if err != nil {
		return ""
	}
	return c.Extension()
}

type noop struct{}

func (noop) Name() string      { return CompressionNone }
func (noop) Extension() string { return "" }
func (noop) Compress(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

type gzipper struct{}

func (gzipper) Name() string      { return CompressionGzip }
func (gzipper) Extension() string { return ".gz" }
func (gzipper) Compress(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

type zstder struct{}

func (zstder) Name() string      { return CompressionZstd }
func (zstder) Extension() string { return ".zst" }
func (zstder) Compress(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}
