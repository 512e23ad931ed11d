package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/watermark-mcp/internal/imaging"
	"github.com/ironsheep/watermark-mcp/internal/session"
	"github.com/ironsheep/watermark-mcp/internal/watermark"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "watermark_apply", "watermark_undo").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors, including the "no images loaded" warning, return a
// JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug().Err(err).Str("tool", params.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Set
	case "watermark_load_images":
		return s.handleLoadImages(args)
	case "watermark_next_image":
		return s.session.Next(), nil
	case "watermark_prev_image":
		return s.session.Prev(), nil
	case "watermark_status":
		return s.handleStatus()

	// Watermark Settings
	case "watermark_configure":
		return s.handleConfigure(args)
	case "watermark_choose_color":
		return s.handleChooseColor(args)
	case "watermark_list_fonts":
		return s.handleListFonts()
	case "watermark_load_logo":
		return s.handleLoadLogo(args)
	case "watermark_clear_logo":
		s.session.ClearLogo()
		return s.session.Settings(), nil

	// Editing
	case "watermark_apply":
		return s.session.Apply()
	case "watermark_apply_all":
		return s.session.ApplyAll()
	case "watermark_undo":
		st, changed := s.session.Undo()
		return &historyResult{Changed: changed, Status: st}, nil
	case "watermark_redo":
		st, changed := s.session.Redo()
		return &historyResult{Changed: changed, Status: st}, nil

	// Output
	case "watermark_save":
		return s.handleSave(args)
	case "watermark_preview":
		return s.handlePreview(args)

	// Shortcuts
	case "watermark_shortcut":
		return s.handleShortcut(args)
	case "watermark_about":
		return s.handleAbout()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Set Handlers ===

type loadImagesArgs struct {
	Paths []string `json:"paths"`
}

type loadImagesResult struct {
	Images []*imaging.ImageInfo `json:"images"`
	Status session.Status       `json:"status"`
}

func (s *Server) handleLoadImages(args json.RawMessage) (interface{}, error) {
	var a loadImagesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	infos, err := s.session.Load(a.Paths)
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []*imaging.ImageInfo{}
	}
	return &loadImagesResult{Images: infos, Status: s.session.Status()}, nil
}

type statusResult struct {
	Status   session.Status   `json:"status"`
	Settings session.Settings `json:"settings"`
}

func (s *Server) handleStatus() (interface{}, error) {
	return &statusResult{
		Status:   s.session.Status(),
		Settings: s.session.Settings(),
	}, nil
}

// === Watermark Settings Handlers ===

type configureArgs struct {
	Text     *string `json:"text"`
	Font     *string `json:"font"`
	FontSize *int    `json:"font_size"`
	Color    *string `json:"color"`
	Position *string `json:"position"`
}

func (s *Server) handleConfigure(args json.RawMessage) (interface{}, error) {
	var a configureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	// Validate everything before changing anything.
	if a.Font != nil && *a.Font == "" {
		return nil, fmt.Errorf("font name must not be empty")
	}
	if a.FontSize != nil && (*a.FontSize < watermark.MinFontSize || *a.FontSize > watermark.MaxFontSize) {
		return nil, fmt.Errorf("font size %d out of range %d-%d", *a.FontSize, watermark.MinFontSize, watermark.MaxFontSize)
	}
	if a.Color != nil && *a.Color != "" {
		if _, err := imaging.ParseHexColor(*a.Color); err != nil {
			return nil, err
		}
	}
	if a.Position != nil {
		if _, err := watermark.ParsePosition(*a.Position); err != nil {
			return nil, err
		}
	}

	if a.Text != nil {
		s.session.SetText(*a.Text)
	}
	if a.Font != nil {
		if err := s.session.SetFont(*a.Font); err != nil {
			return nil, err
		}
	}
	if a.FontSize != nil {
		if err := s.session.SetFontSize(*a.FontSize); err != nil {
			return nil, err
		}
	}
	if a.Color != nil {
		if _, err := s.session.SetColor(*a.Color); err != nil {
			return nil, err
		}
	}
	if a.Position != nil {
		if err := s.session.SetPosition(*a.Position); err != nil {
			return nil, err
		}
	}
	return s.session.Settings(), nil
}

type chooseColorArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleChooseColor(args json.RawMessage) (interface{}, error) {
	var a chooseColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	hex, err := s.session.SetColor(a.Color)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"color": hex}, nil
}

type listFontsResult struct {
	Fonts       []string `json:"fonts"`
	DefaultFont string   `json:"default_font"`
	Positions   []string `json:"positions"`
	MinFontSize int      `json:"min_font_size"`
	MaxFontSize int      `json:"max_font_size"`
}

func (s *Server) handleListFonts() (interface{}, error) {
	positions := make([]string, 0, len(watermark.Positions()))
	for _, p := range watermark.Positions() {
		positions = append(positions, p.String())
	}
	return &listFontsResult{
		Fonts:       watermark.AvailableFonts,
		DefaultFont: watermark.DefaultFont,
		Positions:   positions,
		MinFontSize: watermark.MinFontSize,
		MaxFontSize: watermark.MaxFontSize,
	}, nil
}

type loadLogoArgs struct {
	Path string `json:"path"`
}

type loadLogoResult struct {
	Logo     *imaging.ImageInfo `json:"logo,omitempty"`
	Settings session.Settings   `json:"settings"`
}

func (s *Server) handleLoadLogo(args json.RawMessage) (interface{}, error) {
	var a loadLogoArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	info, err := s.session.LoadLogo(a.Path)
	if err != nil {
		return nil, err
	}
	return &loadLogoResult{Logo: info, Settings: s.session.Settings()}, nil
}

// === Editing Handlers ===

type historyResult struct {
	Changed bool           `json:"changed"`
	Status  session.Status `json:"status"`
}

// === Output Handlers ===

type saveArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

type saveResult struct {
	Saved bool   `json:"saved"`
	Path  string `json:"path,omitempty"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	written, err := s.session.Save(a.Path, a.Format)
	if err != nil {
		return nil, err
	}
	return &saveResult{Saved: written != "", Path: written}, nil
}

type previewArgs struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Background string `json:"background"`
}

func (s *Server) handlePreview(args json.RawMessage) (interface{}, error) {
	var a previewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	bg := s.background
	if a.Background != "" {
		c, err := imaging.ParseHexColor(a.Background)
		if err != nil {
			return nil, err
		}
		bg = c
	}
	return s.session.Preview(a.Width, a.Height, bg)
}

// === Misc Handlers ===

func (s *Server) handleAbout() (interface{}, error) {
	return map[string]interface{}{
		"name":        "watermark-mcp",
		"version":     s.version,
		"description": "Text and logo watermarking with per-image undo/redo",
	}, nil
}
