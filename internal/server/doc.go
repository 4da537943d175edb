// Package server implements the MCP (Model Context Protocol) server that
// exposes the auto-crop engine to MCP clients.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Auto-crop:
//   - image_autocrop: Locate the game area and return its rectangle
//   - image_autocrop_preview: Same, rendered as an outlined preview
//   - image_autocrop_batch: Crop many files into a timestamped directory
//   - image_zoom_presets: Target sizes for browser zoom levels
//
// Region Operations:
//   - image_crop: Extract an explicit rectangle
//
// # Image Caching
//
// Images are cached by path for the lifetime of the server, so an autocrop
// followed by a preview of the same file decodes it once. Batch runs read
// from disk and bypass the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string in data. Malformed tools/call params
// give -32602 and unknown methods -32601.
//
// # Logging
//
// Logs go through the zap logger passed to New. Nothing but protocol
// responses is ever written to stdout.
package server
