// Package epub turns a zip-based EPUB container into a navigable,
// queryable publication: it locates the package document through
// META-INF/container.xml, parses metadata, manifest and spine, resolves
// every resource to a canonical absolute epub:/ URL and builds the
// reading-order index used for forward/backward pagination.
//
// Open is all-or-nothing: a structural defect anywhere in the container
// or package document rejects the whole publication. Lookups after a
// successful Open fail individually (ErrURLNotFound) without
// invalidating the publication.
//
// The package is fully synchronous. A Publication is immutable once
// built and safe for concurrent reads, but the Archive it was opened
// with holds a mutable decompression cursor: callers must serialize all
// access to one Publication/Archive pair, with only one resource stream
// open at a time.
package epub
