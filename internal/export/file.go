package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/mmynk/lobbygen/internal/models"
)

// CompressedSuffix marks output paths that are written as an LZ4 frame.
const CompressedSuffix = ".lz4"

// IsCompressed reports whether path is an LZ4 output path.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedSuffix)
}

// WriteFile serializes ds with e into path, creating parent directories.
// Paths ending in CompressedSuffix are LZ4-compressed. It returns the number
// of bytes written to disk.
func WriteFile(path string, e Exporter, ds *models.Dataset) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	counter := &countingWriter{w: f}
	bw := bufio.NewWriter(counter)

	var dst io.Writer = bw
	var zw *lz4.Writer
	if IsCompressed(path) {
		zw = lz4.NewWriter(bw)
		dst = zw
	}

	if err := e.Write(dst, ds); err != nil {
		return 0, err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return 0, fmt.Errorf("failed to finish lz4 frame: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}
	return counter.n, nil
}

// OpenFile opens path for reading, transparently decompressing LZ4 output.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if !IsCompressed(path) {
		return f, nil
	}
	return &lz4ReadCloser{Reader: lz4.NewReader(f), f: f}, nil
}

type lz4ReadCloser struct {
	*lz4.Reader
	f *os.File
}

func (r *lz4ReadCloser) Close() error {
	return r.f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
