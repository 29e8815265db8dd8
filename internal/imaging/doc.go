// Package imaging provides the file-level image handling used by the MCP
// server: loading and caching decoded images, reporting image metadata,
// parsing and describing colors, and returning rendered stickers to clients.
//
// The pixel work itself lives in package sticker. This package adapts it to
// paths on disk and to JSON-friendly result types.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner. For
// regions, (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached rasters are shared
// and must not be modified; sticker.Render never writes to its input.
//
// # Color Representation
//
// Colors are accepted as "#RGB", "#RRGGBB" or "#RRGGBBAA" strings and returned
// in several forms:
//   - Hex: "#rrggbb", with a trailing alpha byte when not opaque
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Performance Considerations
//
// Large images may consume significant memory when cached. Use Evict() or
// Clear() to manage memory for long-running processes.
package imaging
