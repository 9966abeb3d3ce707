package epub

import (
	"encoding/xml"
	"errors"
)

// Sentinel errors returned by the epub package. Structural errors are
// distinct from I/O errors: I/O failures from the underlying reader are
// passed through unwrapped (retryable by reopening the file), while the
// sentinels below mean the document itself is defective.
var (
	// ErrArchive indicates the zip container structure is invalid.
	ErrArchive = errors.New("epub: archive structure is invalid")

	// ErrContainer indicates META-INF/container.xml is missing or
	// does not name a package document.
	ErrContainer = errors.New("epub: container file is missing or invalid")

	// ErrPackage indicates the package document is missing or
	// structurally invalid.
	ErrPackage = errors.New("epub: package document is missing or invalid")

	// ErrManifest indicates a manifest item is missing a required
	// attribute.
	ErrManifest = errors.New("epub: package document has invalid manifest")

	// ErrSpine indicates an itemref is missing its idref, or an idref
	// does not exist in the manifest.
	ErrSpine = errors.New("epub: package document has invalid spine")

	// ErrInvalidHref indicates a manifest href cannot be resolved to
	// an in-archive URL.
	ErrInvalidHref = errors.New("epub: manifest contains invalid href")

	// ErrURLNotFound indicates no resource exists at the given URL.
	// It is local to the lookup and never invalidates an already
	// opened publication.
	ErrURLNotFound = errors.New("epub: no resource at given URL")

	// ErrNoCover indicates the publication declares no cover image.
	ErrNoCover = errors.New("epub: no cover image found")

	// ErrNoTOC indicates the publication has no navigation document.
	ErrNoTOC = errors.New("epub: no table of contents")
)

// structuralXML reports whether err originates from the XML text itself
// rather than the underlying reader. The decoder reports malformed
// markup (including truncation inside an element) as a SyntaxError;
// everything else is a reader error to pass through.
func structuralXML(err error) bool {
	var syn *xml.SyntaxError
	return errors.As(err, &syn)
}
