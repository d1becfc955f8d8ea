package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	AvatarMaxSide     = 512
	AvatarContentType = "image/webp"
	AvatarExt         = ".webp"
)

var ErrNotAnImage = errors.New("file is not a supported image")

// Processor turns uploaded pictures into square-bounded webp avatars.
type Processor struct {
	maxSide int
	quality float32
}

func NewProcessor(maxSide int, quality float32) *Processor {
	if maxSide <= 0 {
		maxSide = AvatarMaxSide
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Processor{maxSide: maxSide, quality: quality}
}

// Avatar decodes r, shrinks it to fit maxSide keeping the aspect ratio and
// encodes it as webp. Smaller images keep their size.
func (p *Processor) Avatar(r io.Reader) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	resized := p.fit(img)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, &webp.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Processor) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= p.maxSide && h <= p.maxSide {
		return img
	}

	nw, nh := p.maxSide, p.maxSide
	if w > h {
		nh = max(1, h*p.maxSide/w)
	} else {
		nw = max(1, w*p.maxSide/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
