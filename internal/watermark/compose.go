package watermark

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// LogoScale is the logo width as a fraction of the base image width.
const LogoScale = 0.15

// Options describes one watermark application.
type Options struct {
	// Text is drawn when non-empty; Face must then be non-nil.
	Text  string
	Face  font.Face
	Color color.NRGBA

	// Logo is pasted using its own alpha when non-nil.
	Logo image.Image

	Position Position
}

// Compose returns a watermarked copy of base. Neither base nor opts.Logo is
// modified. Text is drawn before the logo.
func Compose(base image.Image, opts Options) *image.NRGBA {
	dst := imaging.Clone(base)

	if opts.Text != "" && opts.Face != nil {
		drawText(dst, opts.Text, opts.Face, opts.Color, opts.Position)
	}

	if opts.Logo != nil {
		dst = pasteLogo(dst, opts.Logo, opts.Position)
	}

	return dst
}

// TextBounds measures the inked area of text rendered with face. The returned
// rectangle is relative to the drawing dot on the baseline.
func TextBounds(face font.Face, text string) image.Rectangle {
	b, _ := font.BoundString(face, text)
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}

// TextPlacement returns the rectangle the text occupies once anchored on a
// canvasW x canvasH image.
func TextPlacement(face font.Face, text string, p Position, canvasW, canvasH int) image.Rectangle {
	tb := TextBounds(face, text)
	origin := Origin(p, canvasW, canvasH, tb.Dx(), tb.Dy())
	return image.Rectangle{Min: origin, Max: origin.Add(tb.Size())}
}

func drawText(dst *image.NRGBA, text string, face font.Face, c color.NRGBA, p Position) {
	bounds := dst.Bounds()
	tb := TextBounds(face, text)
	origin := Origin(p, bounds.Dx(), bounds.Dy(), tb.Dx(), tb.Dy())

	c.A = 255
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(origin.X-tb.Min.X, origin.Y-tb.Min.Y),
	}
	d.DrawString(text)
}

// LogoSize returns the scaled logo dimensions for a base image baseW pixels
// wide: the width is LogoScale of baseW truncated, the height keeps the logo's
// aspect ratio. Both are at least 1.
func LogoSize(logoW, logoH, baseW int) (int, int) {
	w := int(float64(baseW) * LogoScale)
	if w < 1 {
		w = 1
	}
	if logoW < 1 {
		return w, 1
	}
	ratio := float64(w) / float64(logoW)
	h := int(float64(logoH) * ratio)
	if h < 1 {
		h = 1
	}
	return w, h
}

// ScaleLogo resizes logo for a base image baseW pixels wide.
func ScaleLogo(logo image.Image, baseW int) *image.NRGBA {
	lb := logo.Bounds()
	w, h := LogoSize(lb.Dx(), lb.Dy(), baseW)
	return imaging.Resize(logo, w, h, imaging.Lanczos)
}

func pasteLogo(dst *image.NRGBA, logo image.Image, p Position) *image.NRGBA {
	bounds := dst.Bounds()
	scaled := ScaleLogo(logo, bounds.Dx())
	sb := scaled.Bounds()
	origin := Origin(p, bounds.Dx(), bounds.Dy(), sb.Dx(), sb.Dy())
	return imaging.Overlay(dst, scaled, origin, 1.0)
}
