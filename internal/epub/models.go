package epub

import "strings"

// Version identifies the package document dialect. It selects how
// metadata, covers and navigation documents are interpreted.
type Version int

const (
	// Epub2 covers version 2.0 documents and anything that is not 3.0.
	Epub2 Version = iota
	// Epub3 covers version 3.0 documents.
	Epub3
)

func (v Version) String() string {
	if v == Epub3 {
		return "3.0"
	}
	return "2.0"
}

// Properties is the raw space-separated token set carried by the
// properties attribute of manifest items and spine itemrefs.
type Properties string

// Has reports whether the token set contains the given token.
func (p Properties) Has(token string) bool {
	for _, t := range strings.Fields(string(p)) {
		if t == token {
			return true
		}
	}
	return false
}

// MetadataRefinement is a metadata subexpression attached to a primary
// metadata item, following EPUB3 <meta refines="#id"> semantics. For
// EPUB2 documents the same shape approximates OPF-namespaced attributes
// on Dublin Core elements.
type MetadataRefinement struct {
	Property string
	Value    string
	Lang     string
	Scheme   string
}

// MetadataItem is one primary metadata expression: a Dublin Core
// element, an EPUB3 <meta property=...>, or a legacy <meta name=
// content=> (Legacy is set for the last form).
type MetadataItem struct {
	ID       string
	Property string
	Value    string
	Lang     string
	Refined  []MetadataRefinement
	Legacy   bool
}

// ResourceItem is one manifest entry. Href is the raw value from the
// package document; URL is the canonical absolute epub:/ URL, filled in
// when the publication is assembled.
type ResourceItem struct {
	URL        string
	Href       string
	MediaType  string
	Properties Properties
}

// Itemref is one spine entry referencing a manifest item by id.
//
// The linear attribute is deliberately not parsed: non-linear items
// stay in the navigable spine, matching observed reader behavior.
type Itemref struct {
	IDRef      string
	Properties Properties
}

// Spine is the ordered reading-order section of the package document.
type Spine struct {
	// TOC holds the manifest id of the legacy NCX resource, from the
	// spine's toc attribute. Only its presence is tracked; the NCX
	// itself is never traversed.
	TOC      string
	Itemrefs []Itemref
}

// Package is the parsed package document, the intermediate handed to
// the publication assembler. The assembler drains the manifest, so a
// Package is single-use.
type Package struct {
	Version  Version
	Metadata []MetadataItem
	Manifest map[string]*ResourceItem
	Spine    Spine
}
