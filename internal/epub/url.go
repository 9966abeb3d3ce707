package epub

import (
	"net/url"
	"path"
	"strings"
)

// BaseURL is the synthetic root all in-archive resources resolve
// against. It is internal addressing only and never leaves the process
// as anything other than a lookup key.
const BaseURL = "epub:/"

// entryURL maps a zip entry name onto its canonical absolute URL.
// Entry names are taken literally (no percent decoding).
func entryURL(base, name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return joinURL(base, name)
}

// resolveURL joins a document href against an absolute epub:/ base URL.
// Hrefs are percent-decoded first so they land on the same canonical
// form as raw zip entry names. An undecodable href is ErrInvalidHref.
func resolveURL(base, ref string) (string, error) {
	decoded, err := url.PathUnescape(ref)
	if err != nil {
		return "", ErrInvalidHref
	}
	return joinURL(base, decoded), nil
}

// joinURL resolves ref relative to base. Traversal above the archive
// root clamps to the root, so epub:/ joined with ".." is still epub:/.
func joinURL(base, ref string) string {
	dir := path.Dir(strings.TrimPrefix(base, BaseURL))

	var p string
	switch {
	case strings.HasPrefix(ref, "/"):
		p = path.Clean(strings.TrimPrefix(ref, "/"))
	case dir == "." || dir == "":
		p = path.Clean(ref)
	default:
		p = path.Clean(dir + "/" + ref)
	}

	for strings.HasPrefix(p, "../") {
		p = p[len("../"):]
	}
	if p == "." || p == ".." {
		p = ""
	}
	return BaseURL + p
}

// splitFragment splits an href into the path and fragment identifier.
func splitFragment(href string) (p, fragment string) {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i], href[i+1:]
	}
	return href, ""
}
