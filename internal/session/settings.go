package session

import (
	"fmt"
	"strings"

	"github.com/ironsheep/watermark-mcp/internal/imaging"
	"github.com/ironsheep/watermark-mcp/internal/watermark"
)

// Settings is a snapshot of the watermark configuration used by Apply.
type Settings struct {
	Text     string             `json:"text"`
	Font     string             `json:"font"`
	FontSize int                `json:"font_size"`
	Color    string             `json:"color"`
	Position watermark.Position `json:"position"`
	Logo     string             `json:"logo,omitempty"`
}

// Settings returns the current watermark configuration.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Settings{
		Text:     s.text,
		Font:     s.font,
		FontSize: s.fontSize,
		Color:    s.color.Hex(),
		Position: s.position,
		Logo:     s.logoPath,
	}
}

// SetText sets the watermark text. Empty text disables the text watermark.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

// SetFont selects the font family file, e.g. "times.ttf".
func (s *Session) SetFont(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("font name must not be empty")
	}
	s.mu.Lock()
	s.font = name
	s.mu.Unlock()
	return nil
}

// SetFontSize sets the font size in pixels.
func (s *Session) SetFontSize(size int) error {
	if size < watermark.MinFontSize || size > watermark.MaxFontSize {
		return fmt.Errorf("font size %d out of range %d-%d", size, watermark.MinFontSize, watermark.MaxFontSize)
	}
	s.mu.Lock()
	s.fontSize = size
	s.mu.Unlock()
	return nil
}

// SetColor sets the text color from a hex string as returned by a color
// picker. An empty string is a cancelled pick and keeps the current color. The
// normalized "#RRGGBB" form of the active color is returned.
func (s *Session) SetColor(hex string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(hex) == "" {
		return s.color.Hex(), nil
	}
	c, err := imaging.ParseHexColor(hex)
	if err != nil {
		return "", err
	}
	s.color = c
	return c.Hex(), nil
}

// SetPosition selects the anchor preset by name.
func (s *Session) SetPosition(name string) error {
	p, err := watermark.ParsePosition(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.position = p
	s.mu.Unlock()
	return nil
}

// LoadLogo reads the logo image pasted by Apply from disk. An empty path is a
// cancelled selection and keeps the current logo.
func (s *Session) LoadLogo(path string) (*imaging.ImageInfo, error) {
	if path == "" {
		return nil, nil
	}
	s.cache.Evict(path)
	info, err := imaging.LoadImageInfo(s.cache, path)
	if err != nil {
		return nil, fmt.Errorf("load logo %s: %w", path, err)
	}
	logo, err := s.cache.LoadNRGBA(path)
	if err != nil {
		return nil, fmt.Errorf("load logo %s: %w", path, err)
	}

	s.mu.Lock()
	previous := s.logoPath
	s.logo = logo
	s.logoPath = path
	s.release(previous)
	s.mu.Unlock()

	s.logger.Info().Str("path", path).Msg("logo loaded")
	return info, nil
}

// ClearLogo removes the logo watermark.
func (s *Session) ClearLogo() {
	s.mu.Lock()
	previous := s.logoPath
	s.logo = nil
	s.logoPath = ""
	s.release(previous)
	s.mu.Unlock()
}
