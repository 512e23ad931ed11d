package watermark

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Margin is the gap in pixels kept between a corner-anchored watermark and the
// image edges.
const Margin = 10

// ErrUnknownPosition is returned by ParsePosition for names outside the five presets.
var ErrUnknownPosition = errors.New("unknown watermark position")

// Position is one of the five fixed anchor presets.
type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomLeft
	BottomRight
	Center
)

// DefaultPosition is the preset selected when none is configured.
const DefaultPosition = BottomRight

var positionNames = [...]string{
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomLeft:  "bottom-left",
	BottomRight: "bottom-right",
	Center:      "center",
}

// Positions lists every preset in display order.
func Positions() []Position {
	return []Position{TopLeft, TopRight, BottomLeft, BottomRight, Center}
}

func (p Position) String() string {
	if p < 0 || int(p) >= len(positionNames) {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// ParsePosition accepts the preset names case-insensitively, with "-", "_" or a
// space between the words ("Bottom-Right", "bottom_right", "top left").
func ParsePosition(s string) (Position, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	for i, name := range positionNames {
		if name == norm {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(positionNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPosition, int(p))
	}
	return []byte(positionNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Origin returns the top-left corner for a w x h box anchored inside a
// canvasW x canvasH image. Corners keep Margin pixels from both edges; Center
// ignores the margin and centers on both axes.
func Origin(p Position, canvasW, canvasH, w, h int) image.Point {
	switch p {
	case TopLeft:
		return image.Pt(Margin, Margin)
	case TopRight:
		return image.Pt(canvasW-w-Margin, Margin)
	case BottomLeft:
		return image.Pt(Margin, canvasH-h-Margin)
	case BottomRight:
		return image.Pt(canvasW-w-Margin, canvasH-h-Margin)
	default:
		return image.Pt(floorHalf(canvasW-w), floorHalf(canvasH-h))
	}
}

// floorHalf halves n rounding toward negative infinity.
func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}
