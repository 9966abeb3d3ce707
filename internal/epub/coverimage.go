package epub

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const thumbnailJPEGQuality = 90

// CoverImage holds the raw cover resource bytes and, when the image
// decodes, its pixel dimensions.
type CoverImage struct {
	Data      []byte
	MediaType string
	Width     int
	Height    int
}

// CoverImage reads the publication's cover resource from archive and
// probes its dimensions. Undecodable image data is not an error; the
// dimensions are just left at zero.
func (p *Publication) CoverImage(archive *Archive) (*CoverImage, error) {
	item := p.Cover()
	if item == nil {
		return nil, ErrNoCover
	}
	data, err := archive.ReadAll(item.URL)
	if err != nil {
		return nil, err
	}

	ci := &CoverImage{Data: data, MediaType: item.MediaType}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		ci.Width = cfg.Width
		ci.Height = cfg.Height
	}
	return ci, nil
}

// CoverThumbnail decodes the cover, downscales it to at most maxWidth
// pixels wide (preserving aspect ratio, never upscaling) and
// re-encodes it as JPEG.
func (p *Publication) CoverThumbnail(archive *Archive, maxWidth int) ([]byte, error) {
	ci, err := p.CoverImage(archive)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(ci.Data))
	if err != nil {
		return nil, fmt.Errorf("epub: decode cover: %w", err)
	}
	if maxWidth > 0 && src.Bounds().Dx() > maxWidth {
		src = imaging.Resize(src, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: thumbnailJPEGQuality}); err != nil {
		return nil, fmt.Errorf("epub: encode cover thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
