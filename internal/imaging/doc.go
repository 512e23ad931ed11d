// Package imaging provides the image I/O used by the watermark server.
//
// This package decodes source images through a path-keyed cache, parses the hex
// colors handed over by the color picker, renders the fit-to-region preview shown
// on the presentation surface, and writes finished images back to disk.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Editable images are *image.NRGBA values whose
// bounds start at (0,0).
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions are
// stateless and never modify their input images.
//
// # Export
//
// Only PNG and JPEG are written. JPEG has no alpha channel, so images are
// composited over an opaque backdrop color before encoding.
//
// # Error Handling
//
// Functions return errors for:
//   - File I/O failures while loading or saving
//   - Undecodable image data
//   - Unsupported output formats
//   - Display regions without area (ErrRegionNotReady)
package imaging
