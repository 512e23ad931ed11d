// Package server implements the MCP (Model Context Protocol) server for the watermark tools.
//
// This package provides a JSON-RPC 2.0 server that drives a single editing
// session. Every action of the watermark editor (loading images, configuring and
// applying the watermark, undo/redo, saving) is exposed as a tool, so the tool
// table doubles as the editor's command dispatch table.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Set:
//   - watermark_load_images: Load images, replacing the set
//   - watermark_next_image, watermark_prev_image: Circular navigation
//   - watermark_status: Selected image, history and settings
//
// Watermark Settings:
//   - watermark_configure: Text, font, size, color, position
//   - watermark_choose_color: Color picker result
//   - watermark_list_fonts: Offered fonts and positions
//   - watermark_load_logo, watermark_clear_logo: Logo watermark
//
// Editing:
//   - watermark_apply, watermark_apply_all: Composite the watermark
//   - watermark_undo, watermark_redo: Per-image history
//
// Output:
//   - watermark_save: PNG or JPEG export
//   - watermark_preview: Fit-to-region rendering
//
// Other:
//   - watermark_shortcut: Key chord dispatch (Control-z, Control-y, Control-s)
//   - watermark_about: Name and version
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "no images loaded: upload images first"
//
// # Usage
//
//	srv := server.New(session.New(session.Options{}), server.Options{Version: "1.0.0"})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
