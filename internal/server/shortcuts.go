package server

import (
	"encoding/json"
	"fmt"
	"strings"
)

// shortcuts binds key chords to tools. Chords are stored normalized.
var shortcuts = map[string]string{
	"ctrl+z": "watermark_undo",
	"ctrl+y": "watermark_redo",
	"ctrl+s": "watermark_save",
}

// NormalizeChord turns "Control-z", "Ctrl+Z" or "<Control-s>" into "ctrl+z"
// form.
func NormalizeChord(keys string) string {
	k := strings.ToLower(strings.TrimSpace(keys))
	k = strings.TrimSuffix(strings.TrimPrefix(k, "<"), ">")
	k = strings.ReplaceAll(k, "-", "+")

	parts := strings.Split(k, "+")
	for i, p := range parts {
		switch p {
		case "control", "ctl", "cmd", "command":
			parts[i] = "ctrl"
		}
	}
	return strings.Join(parts, "+")
}

// ShortcutTool returns the tool bound to a key chord.
func ShortcutTool(keys string) (string, bool) {
	tool, ok := shortcuts[NormalizeChord(keys)]
	return tool, ok
}

type shortcutArgs struct {
	Keys string `json:"keys"`
}

type shortcutResult struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result"`
}

// handleShortcut runs the tool bound to the chord, passing the remaining
// arguments through to it.
func (s *Server) handleShortcut(args json.RawMessage) (interface{}, error) {
	var a shortcutArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	tool, ok := ShortcutTool(a.Keys)
	if !ok {
		return nil, fmt.Errorf("no action bound to %q", a.Keys)
	}

	result, err := s.executeTool(tool, args)
	if err != nil {
		return nil, err
	}
	return &shortcutResult{Tool: tool, Result: result}, nil
}
