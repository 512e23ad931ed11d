package session

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ironsheep/watermark-mcp/internal/history"
	"github.com/ironsheep/watermark-mcp/internal/imaging"
	"github.com/ironsheep/watermark-mcp/internal/watermark"
)

// ErrNoImages is returned by operations that need a loaded image.
var ErrNoImages = errors.New("no images loaded: upload images first")

// Defaults seeds the watermark settings of a new session.
type Defaults struct {
	Font     string
	FontSize int
	// Color defaults to white when nil.
	Color *imaging.RGBColor
	// Position defaults to watermark.DefaultPosition when nil.
	Position *watermark.Position
}

// Options configures a Session. Zero fields get working defaults.
type Options struct {
	Cache    *imaging.ImageCache
	Fonts    *watermark.FontResolver
	Logger   zerolog.Logger
	Export   imaging.ExportOptions
	Defaults Defaults
}

// slot is one loaded image together with its own edit history.
type slot struct {
	path    string
	image   *image.NRGBA
	history *history.History
}

// Session is the state of one editing session: the loaded image set, the
// cursor into it, and the watermark settings applied by Apply.
//
// Each image keeps an independent history, so stepping between images and
// applying to all of them never mixes snapshots of different images.
//
// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	cache  *imaging.ImageCache
	fonts  *watermark.FontResolver
	logger zerolog.Logger
	export imaging.ExportOptions

	slots []*slot
	index int

	text     string
	font     string
	fontSize int
	color    imaging.RGBColor
	position watermark.Position
	logo     *image.NRGBA
	logoPath string
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Cache == nil {
		opts.Cache = imaging.NewImageCache()
	}
	if opts.Fonts == nil {
		opts.Fonts = watermark.NewFontResolver(watermark.DefaultFontDirs(), opts.Logger)
	}
	d := opts.Defaults
	if d.Font == "" {
		d.Font = watermark.DefaultFont
	}
	if d.FontSize == 0 {
		d.FontSize = watermark.DefaultFontSize
	}
	color := imaging.RGBColor{R: 255, G: 255, B: 255}
	if d.Color != nil {
		color = *d.Color
	}
	position := watermark.DefaultPosition
	if d.Position != nil {
		position = *d.Position
	}

	return &Session{
		cache:    opts.Cache,
		fonts:    opts.Fonts,
		logger:   opts.Logger.With().Str("component", "session").Logger(),
		export:   opts.Export,
		font:     d.Font,
		fontSize: d.FontSize,
		color:    color,
		position: position,
	}
}

// Load replaces the image set with the images at paths and selects the first.
// Every image is read from disk again, and starts a fresh history whose
// baseline is the image as loaded.
//
// An empty path list is a cancelled selection and changes nothing. If any path
// fails to load the previous set is kept.
func (s *Session) Load(paths []string) ([]*imaging.ImageInfo, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	for _, p := range paths {
		s.cache.Evict(p)
	}

	infos := make([]*imaging.ImageInfo, 0, len(paths))
	slots := make([]*slot, 0, len(paths))
	for _, p := range paths {
		info, err := imaging.LoadImageInfo(s.cache, p)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		img, err := s.cache.LoadNRGBA(p)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		infos = append(infos, info)
		slots = append(slots, &slot{path: p, image: img, history: history.New(img)})
	}

	s.mu.Lock()
	previous := s.slots
	s.slots = slots
	s.index = 0
	for _, sl := range previous {
		s.release(sl.path)
	}
	s.mu.Unlock()

	s.logger.Info().Int("count", len(slots)).Int("cached", s.cache.Len()).Msg("images loaded")
	return infos, nil
}

// release drops path from the decode cache unless the image set or the logo
// still refers to it. Callers hold mu.
func (s *Session) release(path string) {
	if path == "" || path == s.logoPath {
		return
	}
	for _, sl := range s.slots {
		if sl.path == path {
			return
		}
	}
	s.cache.Evict(path)
}

// Next selects the following image, wrapping to the first. No-op when empty.
func (s *Session) Next() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.slots); n > 0 {
		s.index = (s.index + 1) % n
	}
	return s.status()
}

// Prev selects the preceding image, wrapping to the last. No-op when empty.
func (s *Session) Prev() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.slots); n > 0 {
		s.index = (s.index - 1 + n) % n
	}
	return s.status()
}

// Current returns a copy of the selected image.
func (s *Session) Current() (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slots) == 0 {
		return nil, ErrNoImages
	}
	return imaging.Clone(s.slots[s.index].image), nil
}

// Apply watermarks the selected image with the current settings and records
// the result in its history.
func (s *Session) Apply() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slots) == 0 {
		return s.status(), ErrNoImages
	}

	opts, err := s.composeOptions()
	if err != nil {
		return s.status(), err
	}
	s.applyAt(s.index, opts)
	return s.status(), nil
}

// ApplyAll watermarks every loaded image in order. Each image records the edit
// in its own history. The last image is selected afterwards.
func (s *Session) ApplyAll() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slots) == 0 {
		return s.status(), ErrNoImages
	}

	opts, err := s.composeOptions()
	if err != nil {
		return s.status(), err
	}
	for i := range s.slots {
		s.index = i
		s.applyAt(i, opts)
	}
	s.logger.Info().Int("count", len(s.slots)).Msg("watermark applied to all images")
	return s.status(), nil
}

func (s *Session) applyAt(i int, opts watermark.Options) {
	sl := s.slots[i]
	out := watermark.Compose(sl.image, opts)
	sl.history.Push(out)
	sl.image = out
	s.logger.Debug().Int("index", i).Str("path", sl.path).Msg("watermark applied")
}

// composeOptions builds compositor input from the settings. Callers hold mu.
func (s *Session) composeOptions() (watermark.Options, error) {
	opts := watermark.Options{
		Text:     s.text,
		Color:    s.color.NRGBA(),
		Position: s.position,
	}
	if s.logo != nil {
		opts.Logo = s.logo
	}
	if s.text != "" {
		face, found, err := s.fonts.Face(s.font, float64(s.fontSize))
		if err != nil {
			return opts, err
		}
		if !found {
			s.logger.Debug().Str("font", s.font).Msg("using fallback font")
		}
		opts.Face = face
	}
	return opts, nil
}

// Undo reverts the last edit of the selected image. It reports false when there
// is nothing to undo.
func (s *Session) Undo() (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slots) == 0 {
		return s.status(), false
	}
	sl := s.slots[s.index]
	img, ok := sl.history.Undo()
	if ok {
		sl.image = img
	}
	return s.status(), ok
}

// Redo reapplies the last undone edit of the selected image. It reports false
// when there is nothing to redo.
func (s *Session) Redo() (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.slots) == 0 {
		return s.status(), false
	}
	sl := s.slots[s.index]
	img, ok := sl.history.Redo()
	if ok {
		sl.image = img
	}
	return s.status(), ok
}

// Save writes the selected image to path and returns the path written. The
// format comes from format when set, otherwise from the extension. An empty
// path is a cancelled save and writes nothing.
func (s *Session) Save(path, format string) (string, error) {
	img, err := s.Current()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	written, err := imaging.Save(img, path, format, s.export)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("path", written).Msg("image saved")
	return written, nil
}

// Preview renders the selected image fitted into a regionW x regionH area.
func (s *Session) Preview(regionW, regionH int, background imaging.RGBColor) (*imaging.PreviewResult, error) {
	img, err := s.Current()
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, regionW, regionH, background)
}
