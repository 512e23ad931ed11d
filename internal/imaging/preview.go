package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// ErrRegionNotReady is returned when a display region has no usable area yet.
var ErrRegionNotReady = errors.New("display region has no area")

// MaxRegionSide bounds each side of a preview region in pixels.
const MaxRegionSide = 16384

// ErrRegionTooLarge is returned for regions wider or taller than MaxRegionSide.
var ErrRegionTooLarge = fmt.Errorf("display region exceeds %d pixels per side", MaxRegionSide)

// PreviewResult contains the rendered display region.
type PreviewResult struct {
	// RegionWidth and RegionHeight are the dimensions of the rendered canvas.
	RegionWidth  int `json:"region_width"`
	RegionHeight int `json:"region_height"`

	// Width and Height are the dimensions of the scaled image inside the canvas.
	Width  int `json:"width"`
	Height int `json:"height"`

	// OffsetX and OffsetY locate the scaled image's top-left corner on the canvas.
	OffsetX int `json:"offset_x"`
	OffsetY int `json:"offset_y"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// FitSize computes the size of an image scaled to fit a region while keeping its
// aspect ratio.
//
// A wider-than-region image is limited by the region width, otherwise by the
// region height. Float-to-int conversions truncate, and each side is at least 1.
// Regions larger than MaxRegionSide on either side are rejected.
func FitSize(imgW, imgH, regionW, regionH int) (int, int, error) {
	if regionW < 1 || regionH < 1 {
		return 0, 0, ErrRegionNotReady
	}
	if regionW > MaxRegionSide || regionH > MaxRegionSide {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrRegionTooLarge, regionW, regionH)
	}
	if imgW < 1 || imgH < 1 {
		return 0, 0, fmt.Errorf("image has no area (%dx%d)", imgW, imgH)
	}

	imgRatio := float64(imgW) / float64(imgH)
	regionRatio := float64(regionW) / float64(regionH)

	var w, h int
	if imgRatio > regionRatio {
		w = regionW
		h = int(float64(w) / imgRatio)
	} else {
		h = regionH
		w = int(float64(h) * imgRatio)
	}
	return max(w, 1), max(h, 1), nil
}

// Preview renders img scaled to fit a regionW x regionH canvas filled with the
// background color, with the image centered on it.
func Preview(img image.Image, regionW, regionH int, background RGBColor) (*PreviewResult, error) {
	bounds := img.Bounds()
	w, h, err := FitSize(bounds.Dx(), bounds.Dy(), regionW, regionH)
	if err != nil {
		return nil, err
	}

	scaled := imaging.Resize(img, w, h, imaging.Lanczos)
	offset := image.Pt(regionW/2-w/2, regionH/2-h/2)

	canvas := imaging.New(regionW, regionH, background.NRGBA())
	canvas = imaging.Overlay(canvas, scaled, offset, 1.0)

	encoded, err := encodePNGBase64(canvas)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		RegionWidth:  regionW,
		RegionHeight: regionH,
		Width:        w,
		Height:       h,
		OffsetX:      offset.X,
		OffsetY:      offset.Y,
		ImageBase64:  encoded,
		MimeType:     "image/png",
	}, nil
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
