// Package server implements the MCP (Model Context Protocol) server for
// marker detection.
//
// It exposes the detection pipeline as JSON-RPC 2.0 tools so an operator or
// an MCP-compatible client can run detection on captured frames, inspect the
// per-color results and retune color ranges without rebuilding.
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
// Source Image:
//   - image_load: Load image and get metadata
//   - image_sample_color: Get color at pixel
//
// Marker Detection:
//   - marker_color_ranges: List the configured color ranges
//   - marker_detect: Detect markers and report centroid and radius per color
//   - marker_dump: Detect markers and write mask files and an overlay
//
// marker_detect and marker_dump accept per-call overrides (threshold,
// largest_component, max_width, region) layered on the server's config.
//
// # Image Caching
//
// Images are cached by path for the lifetime of the process, so repeated
// detection runs on the same frame skip decoding.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// A color that fails geometry extraction is reported in its own detection
// entry and does not fail the call.
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
