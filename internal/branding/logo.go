// Package branding loads the launcher logo and prepares it for the page.
package branding

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"os"
	"time"

	"golang.org/x/image/draw"
)

// MaxWidth is the widest logo the landing page shows.
const MaxWidth = 280

// Logo is an encoded PNG ready to serve.
type Logo struct {
	data    []byte
	width   int
	height  int
	modTime time.Time
}

// LoadLogo reads a PNG or JPEG from path and re-encodes it as PNG, scaling it
// down to MaxWidth if it is wider. A missing file returns an error that
// satisfies errors.Is(err, os.ErrNotExist).
func LoadLogo(path string) (*Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	var modTime time.Time
	if st, err := f.Stat(); err == nil {
		modTime = st.ModTime()
	}

	img := scaleToWidth(src, MaxWidth)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	b := img.Bounds()
	return &Logo{data: buf.Bytes(), width: b.Dx(), height: b.Dy(), modTime: modTime}, nil
}

// scaleToWidth returns src unchanged if it fits, otherwise a copy scaled to
// width w with the aspect ratio kept.
func scaleToWidth(src image.Image, w int) image.Image {
	b := src.Bounds()
	if b.Dx() <= w {
		return src
	}
	h := b.Dy() * w / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Size returns the encoded image dimensions.
func (l *Logo) Size() (width, height int) { return l.width, l.height }

// ServeHTTP writes the logo as image/png.
func (l *Logo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, "logo.png", l.modTime, bytes.NewReader(l.data))
}
