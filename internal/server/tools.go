package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// detectionProperties are the options shared by marker_detect and
// marker_dump. Each overrides the server's configured default for one call.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file (PNG, JPEG, GIF or .txt matrix)",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Pixel count a color group must exceed to count as an object (default 30)",
		},
		"largest_component": map[string]interface{}{
			"type":        "boolean",
			"description": "Keep only the largest 4-connected region of each color before measuring",
		},
		"max_width": map[string]interface{}{
			"type":        "integer",
			"description": "Downsize wider images to this width before detection (0 = never)",
		},
		"region": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"description": "Optional region of interest. Coordinates in the result are relative to it.",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	dumpProps := detectionProperties()
	dumpProps["output_dir"] = map[string]interface{}{
		"type":        "string",
		"description": "Directory receiving obj_<color>.dat, obj_<color>.png and overlay.png",
	}

	return []Tool{
		// Source Image
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a pixel. Use it to check or retune a marker color range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Marker Detection
		{
			Name:        "marker_color_ranges",
			Description: "List the RGB threshold range of every marker color class.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "marker_detect",
			Description: "Detect the yellow, blue and orange markers in an image. Returns, per color, whether a marker was found, its centroid (bounding-box midpoint) and its radius (larger bounding-box extent).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": detectionProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "marker_dump",
			Description: "Run marker detection and write the mask of every detected color as a text grid and PNG, plus an annotated overlay image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": dumpProps,
				"required":   []string{"path", "output_dir"},
			},
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
