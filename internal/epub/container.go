package epub

import (
	"encoding/xml"
	"errors"
	"io"
)

// containerPath is the well-known location of the container file.
const containerPath = "META-INF/container.xml"

// parseContainerFile scans META-INF/container.xml for the first
// <rootfile> element in document order and returns the package
// document's absolute URL, joining its full-path against baseURL.
//
// Reaching EOF without a usable rootfile, or any malformed XML, is
// ErrContainer; reader errors are passed through.
func parseContainerFile(baseURL string, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if structuralXML(err) {
				return "", ErrContainer
			}
			return "", err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "rootfile" {
			continue
		}
		path, ok := attrValue(se, "full-path")
		if !ok {
			break
		}
		u, err := resolveURL(baseURL, path)
		if err != nil {
			break
		}
		return u, nil
	}
	return "", ErrContainer
}
