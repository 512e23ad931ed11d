package imaging

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when ExportOptions leaves the quality unset.
const DefaultJPEGQuality = 90

// ExportOptions controls how an image is written to disk.
type ExportOptions struct {
	// JPEGQuality is the JPEG quality (1-100). Zero selects DefaultJPEGQuality.
	JPEGQuality int

	// Flatten is the backdrop used when the target format has no alpha channel.
	Flatten RGBColor
}

// ParseFormat maps a user supplied format name to an output format.
// Only PNG and JPEG are writable.
func ParseFormat(name string) (imaging.Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return imaging.PNG, nil
	case "jpg", "jpeg":
		return imaging.JPEG, nil
	default:
		return 0, fmt.Errorf("unsupported output format: %q (use png or jpeg)", name)
	}
}

// ResolveSavePath determines the final path and format for a save request.
//
// An explicit format wins over the file extension: an image extension of
// another format is replaced, any other extension is kept and the format's
// extension appended. A path without an extension gets ".png" appended unless
// a format was given.
func ResolveSavePath(path, format string) (string, imaging.Format, error) {
	ext := filepath.Ext(path)

	if format != "" {
		f, err := ParseFormat(format)
		if err != nil {
			return "", 0, err
		}
		extFormat, err := ParseFormat(ext)
		switch {
		case err != nil:
			path += "." + strings.ToLower(f.String())
		case extFormat != f:
			path = strings.TrimSuffix(path, ext) + "." + strings.ToLower(f.String())
		}
		return path, f, nil
	}

	if ext == "" {
		return path + ".png", imaging.PNG, nil
	}

	f, err := ParseFormat(ext)
	if err != nil {
		return "", 0, err
	}
	return path, f, nil
}

// Flatten composites img over an opaque backdrop, dropping its alpha channel.
func Flatten(img image.Image, backdrop RGBColor) *image.RGBA {
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), backdrop.NRGBA())
	return blend.Normal(bg, imaging.Clone(img))
}

// Encode writes img to w in the given format. JPEG output is flattened first.
func Encode(w io.Writer, img image.Image, format imaging.Format, opts ExportOptions) error {
	switch format {
	case imaging.JPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		if err := imaging.Encode(w, Flatten(img, opts.Flatten), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case imaging.PNG:
		if err := imaging.Encode(w, img, imaging.PNG); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

// Save writes img to path, resolving the format as ResolveSavePath does.
// It returns the path actually written.
func Save(img image.Image, path, format string, opts ExportOptions) (string, error) {
	finalPath, f, err := ResolveSavePath(path, format)
	if err != nil {
		return "", err
	}

	out, err := os.Create(finalPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Encode(out, img, f, opts); err != nil {
		out.Close()
		os.Remove(finalPath)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close output file: %w", err)
	}
	return finalPath, nil
}
