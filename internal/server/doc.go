// Package server implements the MCP (Model Context Protocol) server for sticker tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the sticker pipeline
// through the MCP protocol, so an MCP client can inspect an image and turn it
// into a sticker without leaving the conversation.
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
// Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_subject_bounds: Bounding box and coverage of the opaque subject
//
// Sticker Operations:
//   - sticker_create: Render a sticker, inline as base64 PNG or to output_path
//   - sticker_defaults: Report the settings used for omitted arguments
//
// # Image Caching
//
// Decoded rasters are cached by path and reused across tool calls. The cache
// persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(logger, version, config.DefaultStickerSettings())
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
