package judge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type zstdFile struct {
	io.ReadCloser
	f *os.File
}

func (z *zstdFile) Close() error {
	z.ReadCloser.Close()
	return z.f.Close()
}

// OpenData opens a test data file. Files ending in .zst are decompressed on
// the fly; anything else is returned as the *os.File itself so it can be
// handed to a child without a copy goroutine.
func OpenData(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) != ".zst" {
		return f, nil
	}

	d, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	return &zstdFile{ReadCloser: d.IOReadCloser(), f: f}, nil
}
