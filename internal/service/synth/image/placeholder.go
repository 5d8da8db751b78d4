package image

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Placeholder renders a deterministic tinted hero image. It carries an
// optional font face for the resort name caption; without one the
// caption is skipped and the image is pure gradient.
type Placeholder struct {
	fontFace font.Face
}

// NewPlaceholder creates a placeholder renderer. fontPath may be empty.
func NewPlaceholder(fontPath string) (*Placeholder, error) {
	p := &Placeholder{}
	if fontPath != "" {
		face, err := loadFontFace(fontPath, 72)
		if err != nil {
			return nil, fmt.Errorf("load placeholder font: %w", err)
		}
		p.fontFace = face
	}
	return p, nil
}

// Render draws the tinted gradient hero. tint is the preset hex color;
// caption is the resort name, drawn when a font is loaded.
func (p *Placeholder) Render(tint, caption string) ([]byte, error) {
	dc := gg.NewContext(HeroWidth, HeroHeight)

	base, err := parseHex(tint)
	if err != nil {
		base = color.NRGBA{R: 0x2b, G: 0x3a, B: 0x4d, A: 0xff}
	}

	grad := gg.NewLinearGradient(0, 0, 0, HeroHeight)
	grad.AddColorStop(0, lighten(base, 0.25))
	grad.AddColorStop(1, darken(base, 0.35))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, HeroWidth, HeroHeight)
	dc.Fill()

	// A thin horizon band keeps the gradient from reading as flat.
	dc.SetColor(lighten(base, 0.45))
	dc.DrawRectangle(0, HeroHeight*0.62, HeroWidth, 4)
	dc.Fill()

	if p.fontFace != nil && strings.TrimSpace(caption) != "" {
		dc.SetFontFace(p.fontFace)
		dc.SetColor(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe6})
		tw, th := dc.MeasureString(caption)
		dc.DrawString(caption, (HeroWidth-tw)/2, HeroHeight/2+th/2)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

func parseHex(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func lighten(c color.NRGBA, amount float64) color.NRGBA {
	return color.NRGBA{
		R: blend(c.R, 0xff, amount),
		G: blend(c.G, 0xff, amount),
		B: blend(c.B, 0xff, amount),
		A: c.A,
	}
}

func darken(c color.NRGBA, amount float64) color.NRGBA {
	return color.NRGBA{
		R: blend(c.R, 0, amount),
		G: blend(c.G, 0, amount),
		B: blend(c.B, 0, amount),
		A: c.A,
	}
}

func blend(from, to uint8, amount float64) uint8 {
	return uint8(float64(from) + (float64(to)-float64(from))*amount)
}
