package server

import "github.com/ironsheep/watermark-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func savePathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Output file path. The extension selects PNG or JPEG; without one, .png is appended. Empty cancels the save.",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"png", "jpeg", "jpg"},
				"description": "Optional output format overriding the extension",
			},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Set
		{
			Name:        "watermark_load_images",
			Description: "Load one or more PNG/JPEG images, replacing the current set. Selects the first image and resets every undo history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Image file paths in display order",
					},
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "watermark_next_image",
			Description: "Select the next image, wrapping around to the first.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "watermark_prev_image",
			Description: "Select the previous image, wrapping around to the last.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "watermark_status",
			Description: "Report the selected image, the size of the image set, undo/redo availability and the watermark settings.",
			InputSchema: noArgsSchema(),
		},

		// Watermark Settings
		{
			Name:        "watermark_configure",
			Description: "Change any subset of the watermark settings. Omitted fields keep their value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Watermark text. Empty disables the text watermark.",
					},
					"font": map[string]interface{}{
						"type":        "string",
						"description": "Font file name (e.g. arial.ttf). Unknown fonts fall back to the built-in font.",
					},
					"font_size": map[string]interface{}{
						"type":        "integer",
						"minimum":     10,
						"maximum":     100,
						"description": "Font size in pixels (10-100)",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Text color as hex (#RRGGBB)",
					},
					"position": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "center"},
						"description": "Anchor position for text and logo",
					},
				},
			},
		},
		{
			Name:        "watermark_choose_color",
			Description: "Set the text color from a color picker value. An empty color cancels the pick.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color (#RRGGBB or #RGB)",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "watermark_list_fonts",
			Description: "List the offered font names and anchor positions.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "watermark_load_logo",
			Description: "Load a logo image. It is scaled to 15% of each image's width and pasted using its own transparency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Logo image path. Empty cancels.",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "watermark_clear_logo",
			Description: "Remove the logo watermark.",
			InputSchema: noArgsSchema(),
		},

		// Editing
		{
			Name:        "watermark_apply",
			Description: "Apply the watermark to the selected image. The edit can be undone.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "watermark_apply_all",
			Description: "Apply the watermark to every loaded image in order. Each image keeps its own undo history; the last image ends up selected.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "watermark_undo",
			Description: "Undo the last edit of the selected image. Does nothing when only the original remains.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "watermark_redo",
			Description: "Redo the last undone edit of the selected image. Does nothing when there is nothing to redo.",
			InputSchema: noArgsSchema(),
		},

		// Output
		{
			Name:        "watermark_save",
			Description: "Save the selected image as PNG or JPEG. JPEG output is flattened onto an opaque background.",
			InputSchema: savePathSchema(),
		},
		{
			Name:        "watermark_preview",
			Description: "Render the selected image scaled to fit a display region, centered on the region background, as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     imaging.MaxRegionSide,
						"description": "Display region width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     imaging.MaxRegionSide,
						"description": "Display region height in pixels",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Optional region background as hex (default #1E1E1E)",
					},
				},
				"required": []string{"width", "height"},
			},
		},

		// Shortcuts
		{
			Name:        "watermark_shortcut",
			Description: "Run the action bound to a key chord: Control-z undo, Control-y redo, Control-s save (pass path/format for save).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"keys": map[string]interface{}{
						"type":        "string",
						"description": "Key chord, e.g. \"Control-z\" or \"ctrl+s\"",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Output path for the save shortcut",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format for the save shortcut",
					},
				},
				"required": []string{"keys"},
			},
		},
		{
			Name:        "watermark_about",
			Description: "Show the application name and version.",
			InputSchema: noArgsSchema(),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
