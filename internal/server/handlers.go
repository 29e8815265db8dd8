package server

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/sticker-tools-mcp/internal/config"
	"github.com/ironsheep/sticker-tools-mcp/internal/imaging"
	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "sticker_create").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
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
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_subject_bounds":
		return s.handleImageSubjectBounds(args)
	case "sticker_create":
		return s.handleStickerCreate(args)
	case "sticker_defaults":
		return s.handleStickerDefaults(args)
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

// unmarshalArgs decodes tool arguments, treating missing arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (a imageLoadArgs) validate() error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageSubjectBoundsArgs struct {
	Path           string `json:"path"`
	AlphaThreshold *int   `json:"alpha_threshold"`
}

func (s *Server) handleImageSubjectBounds(args json.RawMessage) (interface{}, error) {
	var a imageSubjectBoundsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	threshold := s.defaults.AlphaThreshold
	if a.AlphaThreshold != nil {
		threshold = *a.AlphaThreshold
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return sticker.Subject(img, threshold)
}

// === Sticker Handlers ===

// stickerCreateArgs mirrors config.StickerSettings with every field optional.
type stickerCreateArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`

	AlphaThreshold *int     `json:"alpha_threshold"`
	BorderSize     *int     `json:"border_size"`
	BorderColor    *string  `json:"border_color"`
	BorderBlur     *float64 `json:"border_blur"`
	ShadowColor    *string  `json:"shadow_color"`
	ShadowBlur     *float64 `json:"shadow_blur_strength"`
	Padding        *int     `json:"padding"`
	BgColor        *string  `json:"bg_color"`
	BgTransparent  *bool    `json:"bg_transparent"`
	Crop           *bool    `json:"crop"`
	Kernel         *string  `json:"kernel"`
}

// settings overlays the arguments that were supplied on base.
func (a stickerCreateArgs) settings(base config.StickerSettings) config.StickerSettings {
	s := base
	if a.AlphaThreshold != nil {
		s.AlphaThreshold = *a.AlphaThreshold
	}
	if a.BorderSize != nil {
		s.BorderSize = *a.BorderSize
	}
	if a.BorderColor != nil {
		s.BorderColor = *a.BorderColor
	}
	if a.BorderBlur != nil {
		s.BorderBlur = *a.BorderBlur
	}
	if a.ShadowColor != nil {
		s.ShadowColor = *a.ShadowColor
	}
	if a.ShadowBlur != nil {
		s.ShadowBlur = *a.ShadowBlur
	}
	if a.Padding != nil {
		s.Padding = *a.Padding
	}
	if a.BgColor != nil {
		s.BgColor = *a.BgColor
	}
	if a.BgTransparent != nil {
		s.BgTransparent = *a.BgTransparent
	}
	if a.Crop != nil {
		s.Crop = *a.Crop
	}
	if a.Kernel != nil {
		s.Kernel = *a.Kernel
	}
	return s
}

// StickerSettingsResult reports the effective settings of a rendering.
type StickerSettingsResult struct {
	AlphaThreshold int                  `json:"alpha_threshold"`
	BorderSize     int                  `json:"border_size"`
	BorderColor    imaging.ColorResult  `json:"border_color"`
	BorderBlur     float64              `json:"border_blur"`
	ShadowColor    imaging.ColorResult  `json:"shadow_color"`
	ShadowBlur     float64              `json:"shadow_blur_strength"`
	Padding        int                  `json:"padding"`
	Background     *imaging.ColorResult `json:"bg_color,omitempty"`
	Crop           bool                 `json:"crop"`
	Kernel         string               `json:"kernel"`
}

func describeSettings(cfg sticker.Config) StickerSettingsResult {
	r := StickerSettingsResult{
		AlphaThreshold: cfg.AlphaThreshold,
		BorderSize:     cfg.BorderSize,
		BorderColor:    imaging.DescribeColor(cfg.BorderColor),
		BorderBlur:     cfg.BorderBlur,
		ShadowColor:    imaging.DescribeColor(cfg.ShadowColor),
		ShadowBlur:     cfg.ShadowBlur,
		Padding:        cfg.Padding,
		Crop:           cfg.Crop,
		Kernel:         cfg.Kernel.String(),
	}
	if !cfg.TransparentBackground {
		bg := imaging.DescribeColor(cfg.BackgroundColor)
		r.Background = &bg
	}
	return r
}

// StickerCreateResult is returned by sticker_create.
type StickerCreateResult struct {
	*imaging.ImageResult
	Settings StickerSettingsResult `json:"settings"`
}

func (s *Server) handleStickerCreate(args json.RawMessage) (interface{}, error) {
	var a stickerCreateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	cfg, err := a.settings(s.defaults).Build()
	if err != nil {
		return nil, err
	}

	out, err := imaging.RenderFile(s.cache, a.Path, cfg)
	if err != nil {
		return nil, err
	}

	var result *imaging.ImageResult
	if a.OutputPath != "" {
		result, err = imaging.SaveResult(out, a.OutputPath)
	} else {
		result, err = imaging.EncodeResult(out)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("sticker created",
		zap.String("path", a.Path),
		zap.String("output_path", a.OutputPath),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height))

	return &StickerCreateResult{ImageResult: result, Settings: describeSettings(cfg)}, nil
}

func (s *Server) handleStickerDefaults(json.RawMessage) (interface{}, error) {
	cfg, err := s.defaults.Build()
	if err != nil {
		return nil, err
	}
	return describeSettings(cfg), nil
}
