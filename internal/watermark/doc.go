// Package watermark composites text and logo watermarks onto images.
//
// Compose is a pure function: it copies the base image, draws the text in a
// solid color, then pastes the logo scaled to 15% of the base width using the
// logo's own alpha channel. Both elements are anchored with the same Position.
//
// # Anchoring
//
// Corner presets keep a Margin of 10 pixels from the two nearest edges; the
// Center preset centers on both axes and ignores the margin. Text is anchored by
// its inked bounding box, so for images at least as large as the rendered text
// every glyph pixel stays inside the margins.
//
// # Fonts
//
// FontResolver looks font files up by name in the system font directories. A
// missing or unreadable font is replaced by the embedded Go Regular font.
package watermark
