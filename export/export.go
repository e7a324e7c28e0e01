// Package export serializes analysis results for a rendering process, as
// JSON with optional stream compression.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"

	"github.com/RyanBlaney/sonido-vista/features"
	"github.com/RyanBlaney/sonido-vista/logging"
)

// ErrUnknownCompression is returned for compression names this package does
// not implement
var ErrUnknownCompression = errors.New("unknown compression")

// Compression names a stream compressor applied to the JSON document
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionSnappy Compression = "snappy"
	CompressionLZ4    Compression = "lz4"
	CompressionBrotli Compression = "brotli"
)

var extensions = map[Compression]string{
	CompressionNone:   ".json",
	CompressionGzip:   ".json.gz",
	CompressionZstd:   ".json.zst",
	CompressionSnappy: ".json.sz",
	CompressionLZ4:    ".json.lz4",
	CompressionBrotli: ".json.br",
}

// ParseCompression maps a name to a Compression; the empty string is none
func ParseCompression(name string) (Compression, error) {
	c := Compression(strings.ToLower(strings.TrimSpace(name)))
	if c == "" {
		return CompressionNone, nil
	}
	if _, ok := extensions[c]; !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownCompression)
	}
	return c, nil
}

// Extension is the conventional file suffix for c
func (c Compression) Extension() string {
	if ext, ok := extensions[c]; ok {
		return ext
	}
	return ".json"
}

// Options control Write
type Options struct {
	Compression Compression `json:"compression"`
	Indent      bool        `json:"indent"`
}

// DefaultOptions writes plain compact JSON
func DefaultOptions() *Options {
	return &Options{Compression: CompressionNone}
}

// Write encodes result to w. A nil opts uses DefaultOptions.
func Write(w io.Writer, result *features.Result, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if result == nil {
		return errors.New("export: nil result")
	}

	cw, err := compressWriter(w, opts.Compression)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cw)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		cw.Close()
		return fmt.Errorf("encode result: %w", err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("finish %s stream: %w", opts.Compression, err)
	}
	return nil
}

// Read decodes a result written by Write with the same compression
func Read(r io.Reader, compression Compression) (*features.Result, error) {
	cr, err := decompressReader(r, compression)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	var result features.Result
	if err := json.NewDecoder(cr).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}

// WriteFile writes result to path, creating or truncating it
func WriteFile(path string, result *features.Result, opts *Options) (err error) {
	logger := logging.WithFields(logging.Fields{
		"component": "export",
		"function":  "WriteFile",
		"path":      path,
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if err := Write(f, result, opts); err != nil {
		logger.Error(err, "Export failed")
		return err
	}

	logger.Debug("Result exported", logging.Fields{
		"frames": result.FrameCount,
	})
	return nil
}

// ReadFile reads a result from path
func ReadFile(path string, compression Compression) (*features.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()
	return Read(f, compression)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressWriter(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionBrotli:
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	default:
		return nil, fmt.Errorf("%q: %w", compression, ErrUnknownCompression)
	}
}

func decompressReader(r io.Reader, compression Compression) (io.ReadCloser, error) {
	switch compression {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case CompressionSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%q: %w", compression, ErrUnknownCompression)
	}
}
