// Package server implements the MCP (Model Context Protocol) server for the
// filament gauge.
//
// It exposes frame loading, line detection, width measurement and overlay
// rendering as tools, so an MCP client can inspect a frame and see why a
// measurement came out the way it did.
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
//   - frame_load: Load a frame and get metadata
//   - filament_measure: Width of the filament in a frame
//   - filament_measure_lines: Width from caller-supplied polar lines
//   - filament_detect_lines: Ranked Hough lines of a frame
//   - filament_edge_detect: Canny edge map
//   - filament_overlay: Annotated frame
//
// # Frames
//
// Frames are cached by path for the lifetime of the process and normalized
// to the configured frame size before detection, so pixel bands and the scan
// row always refer to the same geometry.
//
// # Error Handling
//
// A frame that cannot be measured is not an error: the tool succeeds with a
// status such as "no_classified_pair" and width_mm 0. Tool execution errors
// (unreadable files, bad arguments) are returned as JSON-RPC error responses
// with code -32000; malformed requests get the standard JSON-RPC codes.
//
// # Usage
//
//	srv := server.New(config.Default())
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
