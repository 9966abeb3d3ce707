package epub

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TOC is the table of contents extracted from an EPUB3 navigation
// document.
type TOC struct {
	Title   string
	Entries []TOCEntry
}

// TOCEntry is one entry of the table of contents. URL is the resolved
// absolute URL of the target resource (empty for unlinked headings);
// Fragment is the in-document anchor without the leading #.
type TOCEntry struct {
	Label    string
	URL      string
	Fragment string
	Children []TOCEntry
}

// ParseNav extracts the table of contents from a navigation document
// read from r. Entry hrefs resolve against navURL, the document's own
// absolute URL. It prefers the nav element marked epub:type="toc" and
// falls back to the first nav element.
func ParseNav(r io.Reader, navURL string) (*TOC, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("epub: parse nav document: %w", err)
	}

	nav := doc.Find(`nav[epub\:type="toc"]`).First()
	if nav.Length() == 0 {
		nav = doc.Find("nav").First()
	}
	if nav.Length() == 0 {
		return nil, ErrNoTOC
	}

	toc := &TOC{
		Title: strings.TrimSpace(nav.ChildrenFiltered("h1,h2,h3,h4,h5,h6").First().Text()),
	}
	toc.Entries = parseNavList(nav.ChildrenFiltered("ol").First(), navURL)
	return toc, nil
}

// parseNavList walks one ol level of the nav tree.
func parseNavList(ol *goquery.Selection, navURL string) []TOCEntry {
	var entries []TOCEntry
	ol.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		var e TOCEntry

		if a := li.ChildrenFiltered("a").First(); a.Length() > 0 {
			e.Label = strings.TrimSpace(a.Text())
			if href, ok := a.Attr("href"); ok {
				p, frag := splitFragment(href)
				if u, err := resolveURL(navURL, p); err == nil {
					e.URL = u
				}
				e.Fragment = frag
			}
		} else {
			// Unlinked heading entry.
			e.Label = strings.TrimSpace(li.ChildrenFiltered("span").First().Text())
		}

		if sub := li.ChildrenFiltered("ol").First(); sub.Length() > 0 {
			e.Children = parseNavList(sub, navURL)
		}
		entries = append(entries, e)
	})
	return entries
}

// TOC reads and parses the publication's navigation document from
// archive. EPUB2 publications have no navigation document, so this is
// ErrNoTOC for them.
func (p *Publication) TOC(archive *Archive) (*TOC, error) {
	nav := p.Nav()
	if nav == nil {
		return nil, ErrNoTOC
	}
	rc, err := archive.Reader(nav.URL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ParseNav(rc, nav.URL)
}
