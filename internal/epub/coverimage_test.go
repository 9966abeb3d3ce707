package epub

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// pngBytes encodes a solid-color PNG of the given size.
func pngBytes(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.String()
}

const coverOPF = `<package version="3.0" xmlns="http://www.idpf.org/2007/opf">
  <manifest>
    <item id="c1" href="c1.html" media-type="application/xhtml+xml"/>
    <item id="cov" href="images/cover.png" media-type="image/png" properties="cover-image"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`

func TestCoverImage(t *testing.T) {
	pub, archive := openTestEPUB(t, coverOPF, map[string]string{
		"EPUB/c1.html":          "<html/>",
		"EPUB/images/cover.png": pngBytes(t, 40, 20),
	})

	ci, err := pub.CoverImage(archive)
	if err != nil {
		t.Fatalf("CoverImage failed: %v", err)
	}
	if ci.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want image/png", ci.MediaType)
	}
	if ci.Width != 40 || ci.Height != 20 {
		t.Errorf("dimensions = %dx%d, want 40x20", ci.Width, ci.Height)
	}
	if len(ci.Data) == 0 {
		t.Error("Data is empty")
	}
}

func TestCoverImageNoCover(t *testing.T) {
	opf := `<package version="3.0" xmlns="http://www.idpf.org/2007/opf">
  <manifest>
    <item id="c1" href="c1.html" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="c1"/></spine>
</package>`
	pub, archive := openTestEPUB(t, opf, map[string]string{"EPUB/c1.html": "<html/>"})

	if _, err := pub.CoverImage(archive); !errors.Is(err, ErrNoCover) {
		t.Errorf("err = %v, want ErrNoCover", err)
	}
}

func TestCoverThumbnail(t *testing.T) {
	pub, archive := openTestEPUB(t, coverOPF, map[string]string{
		"EPUB/c1.html":          "<html/>",
		"EPUB/images/cover.png": pngBytes(t, 40, 20),
	})

	data, err := pub.CoverThumbnail(archive, 20)
	if err != nil {
		t.Fatalf("CoverThumbnail failed: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width != 20 || cfg.Height != 10 {
		t.Errorf("thumbnail = %dx%d, want 20x10", cfg.Width, cfg.Height)
	}
}

func TestCoverThumbnailNoUpscale(t *testing.T) {
	pub, archive := openTestEPUB(t, coverOPF, map[string]string{
		"EPUB/c1.html":          "<html/>",
		"EPUB/images/cover.png": pngBytes(t, 40, 20),
	})

	data, err := pub.CoverThumbnail(archive, 400)
	if err != nil {
		t.Fatalf("CoverThumbnail failed: %v", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("thumbnail = %dx%d, want original 40x20", cfg.Width, cfg.Height)
	}
}

func TestCoverThumbnailUndecodable(t *testing.T) {
	pub, archive := openTestEPUB(t, coverOPF, map[string]string{
		"EPUB/c1.html":          "<html/>",
		"EPUB/images/cover.png": "not an image",
	})

	if _, err := pub.CoverThumbnail(archive, 100); err == nil {
		t.Error("expected error for undecodable cover")
	}
}
