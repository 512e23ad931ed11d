// Package session holds the editing state behind the watermark tools.
//
// A Session owns the loaded image set (an ordered list of images with a cursor),
// one undo/redo history per image, and the watermark settings. Every user action
// of the editor maps to one method:
//
//	Load          replace the image set, reset histories
//	Next, Prev    move the cursor circularly
//	Apply         watermark the selected image
//	ApplyAll      watermark every image in order
//	Undo, Redo    step the selected image's history
//	Save          export the selected image
//	Preview       fit the selected image into a display region
//
// Operations that need an image return ErrNoImages on an empty session. Undo
// and Redo past the ends of the history are silent no-ops.
package session
