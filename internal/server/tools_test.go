package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_subject_bounds",
		"sticker_create",
		"sticker_defaults",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_RequiredPath(t *testing.T) {
	toolsRequiringPath := map[string]bool{
		"image_load":           true,
		"image_dimensions":     true,
		"image_subject_bounds": true,
		"sticker_create":       true,
	}

	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			required, _ := tool.InputSchema["required"].([]string)

			hasPath := false
			for _, r := range required {
				if r == "path" {
					hasPath = true
				}
			}
			if hasPath != toolsRequiringPath[tool.Name] {
				t.Errorf("requires path: got %v, want %v", hasPath, toolsRequiringPath[tool.Name])
			}
		})
	}
}

func TestToolDefinitions_StickerOptions(t *testing.T) {
	var sticker Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "sticker_create" {
			sticker = tool
		}
	}

	props := sticker.InputSchema["properties"].(map[string]interface{})

	// Every option accepted by stickerCreateArgs must be advertised.
	want := map[string]string{
		"path":                 "string",
		"output_path":          "string",
		"alpha_threshold":      "integer",
		"border_size":          "integer",
		"border_color":         "string",
		"border_blur":          "number",
		"shadow_color":         "string",
		"shadow_blur_strength": "number",
		"padding":              "integer",
		"bg_color":             "string",
		"bg_transparent":       "boolean",
		"crop":                 "boolean",
		"kernel":               "string",
	}
	if len(props) != len(want) {
		t.Errorf("got %d properties, want %d", len(props), len(want))
	}
	for name, typ := range want {
		p, ok := props[name].(map[string]interface{})
		if !ok {
			t.Errorf("missing property %s", name)
			continue
		}
		if p["type"] != typ {
			t.Errorf("%s: type %v, want %s", name, p["type"], typ)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, "test", defaultSettings())
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: 7, Method: "tools/list"})

	if resp.ID != 7 || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded struct {
		Result struct {
			Tools []struct {
				Name        string                 `json:"name"`
				InputSchema map[string]interface{} `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(decoded.Result.Tools) != len(GetToolDefinitions()) {
		t.Errorf("got %d tools on the wire", len(decoded.Result.Tools))
	}
	for _, tool := range decoded.Result.Tools {
		if tool.InputSchema == nil {
			t.Errorf("%s: inputSchema lost in JSON", tool.Name)
		}
	}
}
