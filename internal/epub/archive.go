package epub

import (
	"archive/zip"
	"errors"
	"io"
	"strings"
)

// Archive wraps a seekable byte source as a zip archive and maps every
// entry onto its canonical absolute URL.
//
// The decompression cursor is per-call mutable state: only one reader
// returned by Reader may be in use at a time, and callers sharing an
// Archive across goroutines must serialize access themselves.
type Archive struct {
	zr      *zip.Reader
	entries map[string]*zip.File
}

// OpenArchive reads the zip central directory of r and indexes every
// file entry (directories are skipped, backslashes normalized) under
// its URL joined against baseURL.
//
// A corrupt central directory is reported as ErrArchive; errors from
// the underlying reader are passed through as-is so callers can tell a
// retryable I/O failure from structural corruption.
func OpenArchive(r io.ReaderAt, size int64, baseURL string) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) ||
			errors.Is(err, zip.ErrAlgorithm) ||
			errors.Is(err, zip.ErrChecksum) ||
			errors.Is(err, zip.ErrInsecurePath) {
			return nil, ErrArchive
		}
		return nil, err
	}

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") || strings.HasSuffix(f.Name, `\`) {
			continue
		}
		entries[entryURL(baseURL, f.Name)] = f
	}

	return &Archive{zr: zr, entries: entries}, nil
}

// Reader returns a decompressing stream over the entry at u, or
// ErrURLNotFound if the archive holds no such entry. The caller must
// close the stream before opening another one.
func (a *Archive) Reader(u string) (io.ReadCloser, error) {
	f, ok := a.entries[u]
	if !ok {
		return nil, ErrURLNotFound
	}
	return f.Open()
}

// ReadAll reads the whole entry at u.
func (a *Archive) ReadAll(u string) ([]byte, error) {
	rc, err := a.Reader(u)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ReadString reads the whole entry at u as a string.
func (a *Archive) ReadString(u string) (string, error) {
	b, err := a.ReadAll(u)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Len returns the number of file entries in the archive.
func (a *Archive) Len() int {
	return len(a.entries)
}
