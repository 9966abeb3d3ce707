package epub

import (
	"errors"
	"strings"
	"testing"
)

const navDoc = `<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Contents</title></head>
<body>
  <nav epub:type="toc">
    <h1>Table of Contents</h1>
    <ol>
      <li><a href="text/c1.html">Chapter One</a></li>
      <li><a href="text/c2.html#part2">Chapter Two</a>
        <ol>
          <li><a href="text/c2.html#sec1">Section 2.1</a></li>
        </ol>
      </li>
      <li><span>Appendices</span>
        <ol>
          <li><a href="../extra/app.html">Appendix A</a></li>
        </ol>
      </li>
    </ol>
  </nav>
</body>
</html>`

func TestParseNav(t *testing.T) {
	toc, err := ParseNav(strings.NewReader(navDoc), "epub:/EPUB/nav.html")
	if err != nil {
		t.Fatalf("ParseNav failed: %v", err)
	}

	if toc.Title != "Table of Contents" {
		t.Errorf("Title = %q, want Table of Contents", toc.Title)
	}
	if len(toc.Entries) != 3 {
		t.Fatalf("entry count = %d, want 3", len(toc.Entries))
	}

	c1 := toc.Entries[0]
	if c1.Label != "Chapter One" || c1.URL != "epub:/EPUB/text/c1.html" {
		t.Errorf("entry 0 = %+v", c1)
	}
	if c1.Fragment != "" {
		t.Errorf("entry 0 fragment = %q, want empty", c1.Fragment)
	}

	c2 := toc.Entries[1]
	if c2.URL != "epub:/EPUB/text/c2.html" || c2.Fragment != "part2" {
		t.Errorf("entry 1 = %+v", c2)
	}
	if len(c2.Children) != 1 || c2.Children[0].Fragment != "sec1" {
		t.Errorf("entry 1 children = %+v", c2.Children)
	}

	app := toc.Entries[2]
	if app.Label != "Appendices" || app.URL != "" {
		t.Errorf("entry 2 = %+v", app)
	}
	if len(app.Children) != 1 || app.Children[0].URL != "epub:/extra/app.html" {
		t.Errorf("entry 2 children = %+v", app.Children)
	}
}

func TestParseNavFallsBackToFirstNav(t *testing.T) {
	doc := `<html><body><nav><ol><li><a href="a.html">A</a></li></ol></nav></body></html>`
	toc, err := ParseNav(strings.NewReader(doc), "epub:/nav.html")
	if err != nil {
		t.Fatalf("ParseNav failed: %v", err)
	}
	if len(toc.Entries) != 1 || toc.Entries[0].URL != "epub:/a.html" {
		t.Errorf("entries = %+v", toc.Entries)
	}
}

func TestParseNavNoNavElement(t *testing.T) {
	doc := `<html><body><p>no nav here</p></body></html>`
	if _, err := ParseNav(strings.NewReader(doc), "epub:/nav.html"); !errors.Is(err, ErrNoTOC) {
		t.Errorf("err = %v, want ErrNoTOC", err)
	}
}

func TestPublicationTOC(t *testing.T) {
	pub, archive := openTestEPUB(t, threeChapterOPF, map[string]string{
		"EPUB/text/c1.html": "<html/>",
		"EPUB/text/c2.html": "<html/>",
		"EPUB/text/c3.html": "<html/>",
		"EPUB/style.css":    "body{}",
		"EPUB/nav.html":     navDoc,
	})

	toc, err := pub.TOC(archive)
	if err != nil {
		t.Fatalf("TOC failed: %v", err)
	}
	if len(toc.Entries) != 3 {
		t.Errorf("entry count = %d, want 3", len(toc.Entries))
	}
	if toc.Entries[0].URL != "epub:/EPUB/text/c1.html" {
		t.Errorf("entry 0 URL = %q", toc.Entries[0].URL)
	}
}

func TestPublicationTOCEpub2(t *testing.T) {
	opf := `<package version="2.0" xmlns="http://www.idpf.org/2007/opf">
  <manifest>
    <item id="c1" href="c1.html" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`
	pub, archive := openTestEPUB(t, opf, map[string]string{"EPUB/c1.html": "<html/>"})

	if _, err := pub.TOC(archive); !errors.Is(err, ErrNoTOC) {
		t.Errorf("err = %v, want ErrNoTOC", err)
	}
}
