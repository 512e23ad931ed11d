package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  imaging.Format
	}{
		{"png", imaging.PNG},
		{"PNG", imaging.PNG},
		{".png", imaging.PNG},
		{"jpg", imaging.JPEG},
		{"JPEG", imaging.JPEG},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"gif", "bmp", "tiff", ""} {
		if _, err := ParseFormat(bad); err == nil {
			t.Errorf("ParseFormat(%q) succeeded, want error", bad)
		}
	}
}

func TestResolveSavePath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		format     string
		wantPath   string
		wantFormat imaging.Format
		wantErr    bool
	}{
		{"png extension", "/out/a.png", "", "/out/a.png", imaging.PNG, false},
		{"jpg extension", "/out/a.JPG", "", "/out/a.JPG", imaging.JPEG, false},
		{"no extension defaults to png", "/out/a", "", "/out/a.png", imaging.PNG, false},
		{"format appends extension", "/out/a", "jpeg", "/out/a.jpeg", imaging.JPEG, false},
		{"format replaces other image extension", "/out/a.png", "jpg", "/out/a.jpeg", imaging.JPEG, false},
		{"format replaces jpg extension", "/out/a.JPG", "png", "/out/a.png", imaging.PNG, false},
		{"format keeps matching extension", "/out/a.jpg", "jpeg", "/out/a.jpg", imaging.JPEG, false},
		{"format appends after other extension", "/out/a.v2", "png", "/out/a.v2.png", imaging.PNG, false},
		{"unsupported extension", "/out/a.gif", "", "", 0, true},
		{"unsupported format", "/out/a", "webp", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, f, err := ResolveSavePath(tt.path, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSavePath failed: %v", err)
			}
			if path != tt.wantPath || f != tt.wantFormat {
				t.Errorf("ResolveSavePath = (%q, %v), want (%q, %v)", path, f, tt.wantPath, tt.wantFormat)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	// Pixel (1,0) stays fully transparent.

	out := Flatten(img, RGBColor{R: 0, G: 0, B: 255})

	if got := out.RGBAAt(0, 0); got.R < 250 || got.B > 5 || got.A != 255 {
		t.Errorf("opaque pixel = %v, want red", got)
	}
	if got := out.RGBAAt(1, 0); got.B < 250 || got.R > 5 || got.A != 255 {
		t.Errorf("transparent pixel = %v, want backdrop blue", got)
	}
}

func TestEncode_JPEGDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))

	var buf bytes.Buffer
	if err := Encode(&buf, img, imaging.JPEG, ExportOptions{Flatten: RGBColor{255, 255, 255}}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	out, err := jpeg.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	r, g, b, _ := out.At(8, 8).RGBA()
	if r>>8 < 245 || g>>8 < 245 || b>>8 < 245 {
		t.Errorf("transparent area not flattened to white: %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	img.SetNRGBA(3, 3, color.NRGBA{G: 200, A: 128})

	written, err := Save(img, filepath.Join(dir, "result"), "", ExportOptions{})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != filepath.Join(dir, "result.png") {
		t.Errorf("written = %q", written)
	}

	f, err := os.Open(written)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	out, err := png.Decode(f)
	if err != nil {
		t.Fatalf("saved file is not a PNG: %v", err)
	}
	got := color.NRGBAModel.Convert(out.At(3, 3)).(color.NRGBA)
	if got != (color.NRGBA{G: 200, A: 128}) {
		t.Errorf("PNG pixel = %v, alpha should survive", got)
	}
}

func TestSave_FormatReplacesExtension(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	written, err := Save(img, filepath.Join(dir, "out.png"), "jpeg", ExportOptions{})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if written != filepath.Join(dir, "out.jpeg") {
		t.Errorf("written = %q, want out.jpeg", written)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.png")); !os.IsNotExist(err) {
		t.Error("JPEG data was written to out.png")
	}

	f, err := os.Open(written)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Errorf("out.jpeg is not a JPEG: %v", err)
	}
}

func TestSave_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	if _, err := Save(img, filepath.Join(dir, "out.bmp"), "", ExportOptions{}); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := Save(img, filepath.Join(dir, "missing", "out.png"), "", ExportOptions{}); err == nil {
		t.Fatal("expected error for missing directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("failed saves left %d files behind", len(entries))
	}
}
