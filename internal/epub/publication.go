package epub

import (
	"errors"
	"io"
)

// resourceIndex addresses one resource slot: its position in the
// ordered resource list, and its spine position when it is part of the
// reading order.
type resourceIndex struct {
	res   int
	spine int // -1 when the resource is not in the spine
}

// Publication is the assembled, query-ready view of an opened EPUB.
// It is built once by Open and immutable afterwards: safe to read from
// multiple goroutines, though the Archive it was opened with is not.
type Publication struct {
	version   Version
	metadata  []MetadataItem
	resources []ResourceItem
	spine     []int // spine position -> resource index
	indexes   map[string]resourceIndex

	legacyTOC   int // resource index of the legacy NCX, -1 when absent
	legacyCover int // resource index of the legacy cover, -1 when absent
}

// Open reads a complete EPUB from r: container, package document, and
// the assembled publication. It is all-or-nothing; any structural
// defect in the archive, container, metadata, manifest or spine rejects
// the whole publication.
//
// The returned Archive serves the publication's resource bytes. Both
// belong to one open session and must be accessed under the caller's
// serialization (see Archive).
func Open(r io.ReaderAt, size int64) (*Publication, *Archive, error) {
	archive, err := OpenArchive(r, size, BaseURL)
	if err != nil {
		return nil, nil, err
	}

	cr, err := archive.Reader(BaseURL + containerPath)
	if err != nil {
		if errors.Is(err, ErrURLNotFound) {
			return nil, nil, ErrContainer
		}
		return nil, nil, err
	}
	pkgURL, err := parseContainerFile(BaseURL, cr)
	cr.Close()
	if err != nil {
		return nil, nil, err
	}

	pr, err := archive.Reader(pkgURL)
	if err != nil {
		if errors.Is(err, ErrURLNotFound) {
			return nil, nil, ErrPackage
		}
		return nil, nil, err
	}
	pkg, err := ParsePackage(pr)
	pr.Close()
	if err != nil {
		return nil, nil, err
	}

	pub, err := assemble(pkg, pkgURL)
	if err != nil {
		return nil, nil, err
	}
	return pub, archive, nil
}

// assemble consumes pkg into a Publication. The manifest is drained in
// two phases so that every entry is consumed exactly once: first the
// spine members in reading order, then whatever remains, outside the
// spine. Resource URLs resolve against the package document's URL.
func assemble(pkg *Package, pkgURL string) (*Publication, error) {
	pub := &Publication{
		version:     pkg.Version,
		metadata:    pkg.Metadata,
		indexes:     make(map[string]resourceIndex, len(pkg.Manifest)),
		legacyTOC:   -1,
		legacyCover: -1,
	}

	// The EPUB2 cover convention: a metadata item with property
	// "cover" whose value names a manifest id.
	var legacyCoverID string
	for _, item := range pkg.Metadata {
		if item.Property == "cover" {
			legacyCoverID = item.Value
			break
		}
	}

	for _, ref := range pkg.Spine.Itemrefs {
		item, ok := pkg.Manifest[ref.IDRef]
		if !ok {
			// A dangling idref rejects the publication; partial
			// publications are never returned.
			return nil, ErrSpine
		}
		delete(pkg.Manifest, ref.IDRef)

		u, err := resolveURL(pkgURL, item.Href)
		if err != nil {
			return nil, err
		}
		item.URL = u
		ri := len(pub.resources)
		si := len(pub.spine)
		pub.spine = append(pub.spine, ri)
		pub.resources = append(pub.resources, *item)
		pub.indexes[u] = resourceIndex{res: ri, spine: si}

		if pkg.Spine.TOC != "" && ref.IDRef == pkg.Spine.TOC {
			pub.legacyTOC = ri
		}
		if legacyCoverID != "" && ref.IDRef == legacyCoverID {
			pub.legacyCover = ri
		}
	}

	for id, item := range pkg.Manifest {
		delete(pkg.Manifest, id)

		u, err := resolveURL(pkgURL, item.Href)
		if err != nil {
			return nil, err
		}
		item.URL = u
		ri := len(pub.resources)
		pub.resources = append(pub.resources, *item)
		pub.indexes[u] = resourceIndex{res: ri, spine: -1}
	}

	return pub, nil
}

// Version returns the package document dialect.
func (p *Publication) Version() Version {
	return p.version
}

// Metadata returns all primary metadata items in document order.
func (p *Publication) Metadata() []MetadataItem {
	return p.metadata
}

// Title returns the first title metadata item, or nil.
func (p *Publication) Title() *MetadataItem {
	for i := range p.metadata {
		if p.metadata[i].Property == "title" {
			return &p.metadata[i]
		}
	}
	return nil
}

// Resource looks up the resource at the given absolute URL.
func (p *Publication) Resource(u string) (*ResourceItem, error) {
	idx, ok := p.indexes[u]
	if !ok {
		return nil, ErrURLNotFound
	}
	return &p.resources[idx.res], nil
}

// Resources returns all resources: spine members first, in spine
// order, then the remaining manifest items.
func (p *Publication) Resources() []ResourceItem {
	return p.resources
}

// SpineLen returns the number of resources in the reading order.
func (p *Publication) SpineLen() int {
	return len(p.spine)
}

// NavigateFrom steps from the resource at current to its spine
// neighbor. It returns nil without error when current is a known
// resource outside the spine, or when the step would move past either
// end of the book; an unknown URL is ErrURLNotFound.
func (p *Publication) NavigateFrom(current string, forward bool) (*ResourceItem, error) {
	idx, ok := p.indexes[current]
	if !ok {
		return nil, ErrURLNotFound
	}
	si := idx.spine
	if si < 0 {
		return nil, nil
	}
	if forward {
		if si == len(p.spine)-1 {
			return nil, nil
		}
		si++
	} else {
		if si == 0 {
			return nil, nil
		}
		si--
	}
	return &p.resources[p.spine[si]], nil
}

// NavigateTo returns the resource at dest and whether it is part of
// the spine.
func (p *Publication) NavigateTo(dest string) (*ResourceItem, bool, error) {
	idx, ok := p.indexes[dest]
	if !ok {
		return nil, false, ErrURLNotFound
	}
	return &p.resources[idx.res], idx.spine >= 0, nil
}

// NavigateToStart returns the first spine resource. Page progression
// direction and guide metadata are ignored.
func (p *Publication) NavigateToStart() *ResourceItem {
	return &p.resources[0]
}

// Cover returns the publication's cover image resource, or nil. EPUB3
// documents prefer the first resource carrying the cover-image
// property and fall back to the legacy cover; EPUB2 documents only
// ever have the legacy cover.
func (p *Publication) Cover() *ResourceItem {
	if p.version == Epub3 {
		for i := range p.resources {
			if p.resources[i].Properties.Has("cover-image") {
				return &p.resources[i]
			}
		}
	}
	if p.legacyCover >= 0 {
		return &p.resources[p.legacyCover]
	}
	return nil
}

// Nav returns the EPUB3 navigation document, or nil. EPUB2 documents
// have none; their NCX is tracked only through LegacyTOC.
func (p *Publication) Nav() *ResourceItem {
	if p.version != Epub3 {
		return nil
	}
	for i := range p.resources {
		if p.resources[i].Properties.Has("nav") {
			return &p.resources[i]
		}
	}
	return nil
}

// LegacyTOC returns the legacy NCX resource referenced from the
// spine's toc attribute, or nil. The NCX content is never parsed.
func (p *Publication) LegacyTOC() *ResourceItem {
	if p.legacyTOC < 0 {
		return nil
	}
	return &p.resources[p.legacyTOC]
}
