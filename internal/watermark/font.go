package watermark

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFont is the font family selected when none is configured.
const DefaultFont = "arial.ttf"

// DefaultFontSize is the font size selected when none is configured.
const DefaultFontSize = 30

// Font size limits accepted by the text settings.
const (
	MinFontSize = 10
	MaxFontSize = 100
)

// AvailableFonts lists the font families offered for selection.
var AvailableFonts = []string{"arial.ttf", "times.ttf", "cour.ttf", "calibri.ttf"}

var (
	fallbackOnce sync.Once
	fallbackFont *opentype.Font
	fallbackErr  error
)

// fallback returns the embedded Go Regular font.
func fallback() (*opentype.Font, error) {
	fallbackOnce.Do(func() {
		fallbackFont, fallbackErr = opentype.Parse(goregular.TTF)
	})
	return fallbackFont, fallbackErr
}

// DefaultFontDirs returns the system font directories for the running platform.
func DefaultFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		root := os.Getenv("WINDIR")
		if root == "" {
			root = `C:\Windows`
		}
		return []string{filepath.Join(root, "Fonts")}
	case "darwin":
		dirs := []string{"/Library/Fonts", "/System/Library/Fonts", "/System/Library/Fonts/Supplemental"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		}
		return dirs
	}
}

// FontResolver turns font family file names into faces.
//
// Names are looked up as given when they are paths, otherwise by a
// case-insensitive search of the configured directories and their
// subdirectories. Parsed fonts are kept for reuse. A name that cannot be
// resolved falls back to the embedded Go Regular font without reporting an
// error.
//
// One face is kept per name and size and handed to every caller asking for
// it. FontResolver is safe for concurrent use; the faces it returns are not,
// so callers sharing a resolver serialize their drawing.
type FontResolver struct {
	dirs   []string
	logger zerolog.Logger

	mu     sync.Mutex
	parsed map[string]*opentype.Font

	facesMu sync.Mutex
	faces   map[faceKey]resolvedFace
}

type faceKey struct {
	name string
	size float64
}

type resolvedFace struct {
	face  font.Face
	found bool
}

// NewFontResolver creates a resolver searching dirs in order.
func NewFontResolver(dirs []string, logger zerolog.Logger) *FontResolver {
	return &FontResolver{
		dirs:   dirs,
		logger: logger.With().Str("component", "fonts").Logger(),
		parsed: make(map[string]*opentype.Font),
		faces:  make(map[faceKey]resolvedFace),
	}
}

// Face returns the face for the named font at size pixels. The boolean reports
// whether the named font was found; when false the face uses the fallback font.
func (r *FontResolver) Face(name string, size float64) (font.Face, bool, error) {
	key := faceKey{name: name, size: size}

	r.facesMu.Lock()
	defer r.facesMu.Unlock()
	if rf, ok := r.faces[key]; ok {
		return rf.face, rf.found, nil
	}

	f, found := r.lookup(name)
	if f == nil {
		var err error
		f, err = fallback()
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse fallback font: %w", err)
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create font face: %w", err)
	}
	r.faces[key] = resolvedFace{face: face, found: found}
	return face, found, nil
}

func (r *FontResolver) lookup(name string) (*opentype.Font, bool) {
	if name == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.parsed[name]; ok {
		return f, f != nil
	}

	path := r.find(name)
	if path == "" {
		r.logger.Debug().Str("font", name).Msg("font not found, using fallback")
		r.parsed[name] = nil
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Debug().Err(err).Str("path", path).Msg("font unreadable, using fallback")
		r.parsed[name] = nil
		return nil, false
	}
	f, err := opentype.Parse(data)
	if err != nil {
		r.logger.Debug().Err(err).Str("path", path).Msg("font unparsable, using fallback")
		r.parsed[name] = nil
		return nil, false
	}

	r.logger.Debug().Str("font", name).Str("path", path).Msg("font resolved")
	r.parsed[name] = f
	return f, true
}

// find locates a font file. Names without an extension also match ".ttf" and
// ".otf" files.
func (r *FontResolver) find(name string) string {
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		if st, err := os.Stat(name); err == nil && !st.IsDir() {
			return name
		}
		return ""
	}

	want := map[string]bool{strings.ToLower(name): true}
	if filepath.Ext(name) == "" {
		want[strings.ToLower(name)+".ttf"] = true
		want[strings.ToLower(name)+".otf"] = true
	}

	for _, dir := range r.dirs {
		var found string
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && want[strings.ToLower(d.Name())] {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}
