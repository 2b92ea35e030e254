// Package server implements the MCP (Model Context Protocol) server for the
// mosaic engine.
//
// This package provides a JSON-RPC 2.0 server that exposes mosaic building
// and its building blocks as MCP tools, so an MCP client can build mosaics,
// inspect tile libraries and query color matches.
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
//   - mosaic_build: Build and save a mosaic
//   - mosaic_catalog: List the tiles of a directory with their colors
//   - mosaic_reduce: Reduce an image to its grid of cell colors
//   - mosaic_match_color: Find the tile nearest to a color
//   - mosaic_color_distance: Distance between two colors
//   - image_dimensions: Width and height of an image
//
// # Image Caching
//
// Main images are decoded once and cached by path for the lifetime of the
// process, so repeated builds or reductions of the same image skip the
// decode. Tile directories are re-read on every call.
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
//	srv := server.New(logrus.StandardLogger())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
