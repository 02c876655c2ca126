package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// emptySchema is the schema of tools that take no arguments.
func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// pointSchema is the schema of the pointer tools.
func pointSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{
				"type":        "integer",
				"description": "Canvas X coordinate (0 = left edge)",
			},
			"y": map[string]interface{}{
				"type":        "integer",
				"description": "Canvas Y coordinate (0 = top edge)",
			},
		},
		"required": []string{"x", "y"},
	}
}

// historyIndexSchema is the schema of tools addressing one history entry.
func historyIndexSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"index": map[string]interface{}{
				"type":        "integer",
				"description": "Position in the list returned by history_list (0 = oldest shown)",
			},
		},
		"required": []string{"index"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "load_image",
			Description: "Load an image file as the drawing source. Large images are shrunk to fit the canvas; the canvas keeps what is already drawn.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP or TIFF)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "convert_to_sketch",
			Description: "Replace the loaded image with a pencil-sketch version of itself and clear the canvas.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "auto_draw",
			Description: "Clear the canvas and redraw the loaded image as line art: traced edge polylines plus stippled dots for dark areas, in the current color.",
			InputSchema: emptySchema(),
		},

		// Canvas
		{
			Name:        "clear_canvas",
			Description: "Remove everything drawn on the canvas.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "canvas_state",
			Description: "Report canvas size, primitive counts, current color, brush size and the loaded image.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "render_canvas",
			Description: "Render the canvas over a white background and return it as base64-encoded PNG without saving it.",
			InputSchema: emptySchema(),
		},
		{
			Name:        "save_drawing",
			Description: "Save the canvas as a PNG in the history directory and record it in the drawing history.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Optional title. Defaults to \"Drawing N\"",
					},
				},
			},
		},

		// Brush
		{
			Name:        "choose_color",
			Description: "Set the drawing color. Returns the color and a text color that stays readable on it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color, #rrggbb or #rgb",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "set_brush_size",
			Description: "Set the freehand brush size in pixels. Values outside 1-20 are clamped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Brush diameter in pixels (1-20)",
					},
				},
				"required": []string{"size"},
			},
		},

		// Freehand
		{
			Name:        "pointer_down",
			Description: "Start a freehand stroke at a canvas position.",
			InputSchema: pointSchema(),
		},
		{
			Name:        "pointer_move",
			Description: "Extend the current freehand stroke to a canvas position. Ignored when no stroke is in progress.",
			InputSchema: pointSchema(),
		},
		{
			Name:        "pointer_up",
			Description: "End the current freehand stroke.",
			InputSchema: emptySchema(),
		},

		// History
		{
			Name:        "history_list",
			Description: "List the most recent saved drawings, oldest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of entries. Defaults to the configured recent count",
					},
				},
			},
		},
		{
			Name:        "history_load",
			Description: "Load a saved drawing as the current image and clear the canvas.",
			InputSchema: historyIndexSchema(),
		},
		{
			Name:        "history_delete",
			Description: "Delete a saved drawing and its file.",
			InputSchema: historyIndexSchema(),
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
