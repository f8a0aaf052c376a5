package cli

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"

	"github.com/Sushant-Chavan/kelojson/format"
)

// HasExtension reports whether path names a KeloJSON file, ignoring a
// trailing compression suffix.
func HasExtension(path string) bool {
	path = strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".xz")
	return strings.HasSuffix(path, format.Extension)
}

// OpenInput opens a possibly compressed input. "-" reads from stdin.
// Compression is picked by file suffix (.gz, .xz); regular files get a
// progress bar on stderr unless quiet is set.
func OpenInput(path string, quiet bool) (io.ReadCloser, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var r io.ReadCloser = f
	if !quiet {
		if r, err = WrapInputFile(f); err != nil {
			f.Close()
			return nil, err
		}
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "reading gzip header of %s", path)
		}
		return &layered{r: gz, close: []io.Closer{gz, r}}, nil
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "reading xz header of %s", path)
		}
		return &layered{r: xr, close: []io.Closer{r}}, nil
	}
	return r, nil
}

// OpenOutput opens a possibly gzip-compressed output. "-" writes to
// stdout. Existing files are truncated.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		return &layeredWriter{w: gz, close: []io.Closer{gz, f}}, nil
	}
	return f, nil
}

type layered struct {
	r     io.Reader
	close []io.Closer
}

func (l *layered) Read(p []byte) (int, error) { return l.r.Read(p) }

func (l *layered) Close() error {
	var first error
	for _, c := range l.close {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type layeredWriter struct {
	w     io.Writer
	close []io.Closer
}

func (l *layeredWriter) Write(p []byte) (int, error) { return l.w.Write(p) }

func (l *layeredWriter) Close() error {
	var first error
	for _, c := range l.close {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
