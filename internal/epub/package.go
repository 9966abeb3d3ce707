package epub

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// XML namespaces of the package document.
const (
	dcNamespace  = "http://purl.org/dc/elements/1.1/"
	opfNamespace = "http://www.idpf.org/2007/opf"
)

// ParsePackage consumes the package document from r and returns the
// parsed Package. Parsing is a single forward pass over the XML token
// stream; it ends at </package> or at end of input.
//
// Structural defects map to ErrPackage, ErrManifest or ErrSpine;
// reader errors are passed through.
func ParsePackage(r io.Reader) (*Package, error) {
	p := &packageParser{
		dec: xml.NewDecoder(r),
		out: &Package{Manifest: make(map[string]*ResourceItem)},
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.out, nil
}

type packageParser struct {
	dec *xml.Decoder
	out *Package
}

// mapXMLErr collapses decoder errors: malformed XML becomes ErrPackage,
// reader errors pass through.
func mapXMLErr(err error) error {
	if structuralXML(err) {
		return ErrPackage
	}
	return err
}

func (p *packageParser) parse() error {
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return mapXMLErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "package":
				ver, ok := attrValue(t, "version")
				if !ok {
					return ErrPackage
				}
				if strings.EqualFold(ver, "3.0") {
					p.out.Version = Epub3
				} else {
					p.out.Version = Epub2
				}
			case "metadata":
				md, err := p.parseMetadata()
				if err != nil {
					return err
				}
				p.out.Metadata = md
			case "manifest":
				if err := p.parseManifest(); err != nil {
					return err
				}
			case "spine":
				if toc, ok := attrValue(t, "toc"); ok {
					p.out.Spine.TOC = toc
				}
				if err := p.parseSpine(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "package" {
				return nil
			}
		}
	}
}

// pendingKind enumerates the states of the metadata value lookahead.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingPrimary
	pendingRefinement
)

// pendingValue is the one-token-lookahead state for metadata parsing:
// the value of a dc:* element or an OPF <meta> is the text token that
// follows its start tag, so the element's destination is parked here
// and resolved when that text arrives.
type pendingValue struct {
	kind pendingKind
	// item indexes the metadata slice when kind is pendingPrimary.
	item int
	// refines is the target id when kind is pendingRefinement.
	refines string
}

func (p *packageParser) parseMetadata() ([]MetadataItem, error) {
	var items []MetadataItem
	refinements := make(map[string][]MetadataRefinement)
	pending := pendingValue{}
	legacy := p.out.Version == Epub2

loop:
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, mapXMLErr(err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "metadata" {
				break loop
			}

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" || pending.kind == pendingNone {
				continue
			}
			switch pending.kind {
			case pendingPrimary:
				items[pending.item].Value = text
			case pendingRefinement:
				refs := refinements[pending.refines]
				refs[len(refs)-1].Value = text
			}
			pending = pendingValue{}

		case xml.StartElement:
			switch {
			case t.Name.Space == dcNamespace:
				item := MetadataItem{Property: t.Name.Local}
				for _, a := range t.Attr {
					switch {
					case a.Name.Space == "" && a.Name.Local == "id":
						item.ID = a.Value
					case a.Name.Local == "lang":
						item.Lang = a.Value
					case legacy && a.Name.Space == opfNamespace:
						// EPUB2: OPF-namespaced attributes on a
						// Dublin Core element act as inline
						// refinements.
						item.Refined = append(item.Refined, MetadataRefinement{
							Property: a.Name.Local,
							Value:    a.Value,
						})
					}
				}
				items = append(items, item)
				pending = pendingValue{kind: pendingPrimary, item: len(items) - 1}

			case t.Name.Local == "meta":
				prop, hasProp := attrValue(t, "property")
				if hasProp && t.Name.Space == opfNamespace {
					lang, _ := attrLocal(t, "lang")
					if target, ok := attrValue(t, "refines"); ok {
						// Subexpression: collect in the side table,
						// merged onto its target after the section
						// ends so order does not matter.
						target = strings.TrimPrefix(target, "#")
						scheme, _ := attrValue(t, "scheme")
						refinements[target] = append(refinements[target], MetadataRefinement{
							Property: prop,
							Lang:     lang,
							Scheme:   scheme,
						})
						pending = pendingValue{kind: pendingRefinement, refines: target}
					} else {
						id, _ := attrValue(t, "id")
						items = append(items, MetadataItem{
							ID:       id,
							Property: prop,
							Lang:     lang,
						})
						pending = pendingValue{kind: pendingPrimary, item: len(items) - 1}
					}
					continue
				}
				// Legacy XHTML1.1 <meta name= content=>.
				name, okName := attrValue(t, "name")
				content, okContent := attrValue(t, "content")
				if okName && okContent {
					items = append(items, MetadataItem{
						Property: name,
						Value:    content,
						Legacy:   true,
					})
				}
			}
		}
	}

	// Merge collected refinements onto their targets. A refinement
	// whose target id never appeared is dropped.
	for i := range items {
		if items[i].ID == "" {
			continue
		}
		if refs, ok := refinements[items[i].ID]; ok {
			items[i].Refined = append(items[i].Refined, refs...)
			delete(refinements, items[i].ID)
		}
	}

	return items, nil
}

func (p *packageParser) parseManifest() error {
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return mapXMLErr(err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "manifest" {
				return nil
			}
		case xml.StartElement:
			if t.Name.Local != "item" {
				continue
			}
			id, ok := attrValue(t, "id")
			if !ok {
				return ErrManifest
			}
			href, ok := attrValue(t, "href")
			if !ok {
				return ErrManifest
			}
			mediaType, ok := attrValue(t, "media-type")
			if !ok {
				return ErrManifest
			}
			props, _ := attrValue(t, "properties")
			p.out.Manifest[id] = &ResourceItem{
				Href:       href,
				MediaType:  mediaType,
				Properties: Properties(props),
			}
		}
	}
}

func (p *packageParser) parseSpine() error {
	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return mapXMLErr(err)
		}

		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "spine" {
				return nil
			}
		case xml.StartElement:
			if t.Name.Local != "itemref" {
				continue
			}
			idref, ok := attrValue(t, "idref")
			if !ok {
				return ErrSpine
			}
			props, _ := attrValue(t, "properties")
			p.out.Spine.Itemrefs = append(p.out.Spine.Itemrefs, Itemref{
				IDRef:      idref,
				Properties: Properties(props),
			})
		}
	}
}

// attrValue returns the unprefixed attribute with the given local name.
func attrValue(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrLocal returns the attribute with the given local name regardless
// of prefix, so xml:lang is found whether or not the decoder expands
// the reserved xml prefix.
func attrLocal(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
