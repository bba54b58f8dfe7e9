package reporting

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Create opens path for writing, creating parent directories as needed. A
// ".gz" suffix gzip-compresses everything written. Closing the returned
// writer flushes the compressor and closes the file.
func Create(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipFile{Writer: gzip.NewWriter(f), file: f}, nil
}

type gzipFile struct {
	*gzip.Writer
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Writer.Close(), g.file.Close())
}

// FormatForPath guesses the output format from a file name, ignoring a
// trailing ".gz". It returns ok=false when the extension says nothing.
func FormatForPath(path string) (Format, bool) {
	ext := filepath.Ext(strings.TrimSuffix(path, ".gz"))
	switch strings.ToLower(ext) {
	case ".html", ".htm":
		return FormatHTML, true
	case ".json":
		return FormatJSON, true
	case ".xml":
		return FormatJUnit, true
	case ".txt":
		return FormatText, true
	}
	return "", false
}
