package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/sticker-tools-mcp/internal/config"
)

func defaultSettings() config.StickerSettings {
	return config.DefaultStickerSettings()
}

func TestNew(t *testing.T) {
	s := New(nil, "1.0.0", defaultSettings())
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.logger == nil {
		t.Fatal("New() should fall back to a no-op logger")
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(nil, "2.3.4", defaultSettings())
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	if resp == nil || resp.Error != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo := result["serverInfo"].(map[string]interface{})
	if serverInfo["name"] != ServerName {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != "2.3.4" {
		t.Errorf("serverInfo.version: got %v", serverInfo["version"])
	}
}

func TestHandleRequest_Routing(t *testing.T) {
	s := New(nil, "test", defaultSettings())

	tests := []struct {
		method    string
		wantNil   bool
		wantError int
	}{
		{"ping", false, 0},
		{"tools/list", false, 0},
		{"notifications/initialized", true, 0},
		{"nonexistent/method", false, -32601},
		{"tools/call", false, -32602}, // missing params
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "r", Method: tt.method})
			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != "r" {
				t.Errorf("ID: got %v, want r", resp.ID)
			}
			switch {
			case tt.wantError == 0 && resp.Error != nil:
				t.Errorf("unexpected error: %+v", resp.Error)
			case tt.wantError != 0 && (resp.Error == nil || resp.Error.Code != tt.wantError):
				t.Errorf("error: got %+v, want code %d", resp.Error, tt.wantError)
			}
		})
	}
}

func TestServe(t *testing.T) {
	s := New(nil, "test", defaultSettings())

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")
	var out bytes.Buffer

	if err := s.Serve(strings.NewReader(in), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}

	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3 (initialize, parse error, ping)", len(responses))
	}
	if responses[0].ID != float64(1) || responses[0].Error != nil {
		t.Errorf("initialize: %+v", responses[0])
	}
	if responses[1].Error == nil || responses[1].Error.Code != -32700 {
		t.Errorf("parse error: %+v", responses[1])
	}
	if responses[2].ID != float64(2) || responses[2].Error != nil {
		t.Errorf("ping: %+v", responses[2])
	}
}

func TestMCPError_Marshal(t *testing.T) {
	mcpErr := MCPError{
		Code:    -32000,
		Message: "Tool execution failed",
		Data:    "file not found",
	}

	data, err := json.Marshal(mcpErr)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded MCPError
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Code != -32000 || decoded.Data != "file not found" {
		t.Errorf("got %+v", decoded)
	}
}
