// Package server implements the MCP (Model Context Protocol) server for sketchdraw.
//
// The server exposes the drawing studio as MCP tools so that an MCP client can
// load a photo, turn it into line art, doodle on the canvas and manage saved
// drawings without a window.
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
// Image:
//   - load_image: Load a photo as the drawing source
//   - convert_to_sketch: Replace the photo with a pencil sketch
//   - auto_draw: Redraw the photo as edge polylines and shading dots
//
// Canvas:
//   - clear_canvas, canvas_state
//   - render_canvas: Base64 PNG preview
//   - save_drawing: Write a PNG and record it in the history
//
// Brush and freehand:
//   - choose_color, set_brush_size
//   - pointer_down, pointer_move, pointer_up
//
// History:
//   - history_list, history_load, history_delete
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC errors with code -32000. The data
// field holds a studio.Notice, the same short message a drawing window would
// show. Unknown tools and malformed arguments use -32602.
//
// # Usage
//
//	st, err := studio.Open(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return server.New(st, logger, version).Run(ctx)
//
// Logs go to the logger, never to stdout, which carries the protocol.
package server
