package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func alphaThresholdProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Alpha a pixel must exceed to count as subject (0-255). Default 10",
		"minimum":     0,
		"maximum":     255,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and whether it has transparency. Stickers need a transparent background around the subject.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_subject_bounds",
			Description: "Find the bounding box of the non-transparent subject and how much of the image it covers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":            pathProperty(),
					"alpha_threshold": alphaThresholdProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Sticker Operations
		{
			Name:        "sticker_create",
			Description: "Turn an image with a transparent background into a sticker: a colored outline and soft drop shadow traced around the subject. Returns base64 PNG, or writes the PNG to output_path when given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the PNG to instead of returning it inline",
					},
					"alpha_threshold": alphaThresholdProperty(),
					"border_size": map[string]interface{}{
						"type":        "integer",
						"description": "Outline width in pixels. Default 10",
						"minimum":     0,
					},
					"border_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB or #RRGGBBAA. Default #ffffff",
					},
					"border_blur": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian sigma that anti-aliases the outline. Default 1.5",
					},
					"shadow_color": map[string]interface{}{
						"type":        "string",
						"description": "Shadow color as #RRGGBB or #RRGGBBAA. Default #000000",
					},
					"shadow_blur_strength": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian sigma of the drop shadow. Default 6",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Margin kept around the subject when cropping. Default 20",
						"minimum":     0,
					},
					"bg_color": map[string]interface{}{
						"type":        "string",
						"description": "Background color used when bg_transparent is false. Default #ffffff",
					},
					"bg_transparent": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep the area outside the sticker transparent. Default true",
					},
					"crop": map[string]interface{}{
						"type":        "boolean",
						"description": "Crop to the subject plus padding before drawing. Default true",
					},
					"kernel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"square", "disk"},
						"description": "Outline shape: square keeps sharp corners, disk rounds them. Default square",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sticker_defaults",
			Description: "Report the sticker settings used when sticker_create arguments are omitted.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
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
