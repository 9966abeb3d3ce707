package epub

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"
)

// buildZip packs the given files into an in-memory zip archive and
// returns a reader over it together with its size.
func buildZip(t *testing.T, files map[string]string) (*bytes.Reader, int64) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	return bytes.NewReader(buf.Bytes()), int64(buf.Len())
}

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="EPUB/pkg.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// openTestEPUB builds an EPUB around the given package document (at
// EPUB/pkg.opf) plus extra archive files, and opens it.
func openTestEPUB(t *testing.T, opf string, extra map[string]string) (*Publication, *Archive) {
	t.Helper()

	files := map[string]string{
		"mimetype":               "application/epub+zip",
		"META-INF/container.xml": containerXML,
		"EPUB/pkg.opf":           opf,
	}
	for name, content := range extra {
		files[name] = content
	}

	r, size := buildZip(t, files)
	pub, archive, err := Open(r, size)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return pub, archive
}
