package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the frame image",
	}
}

func cannyProperties(props map[string]interface{}) map[string]interface{} {
	props["threshold_low"] = map[string]interface{}{
		"type":        "integer",
		"description": "Canny low threshold, 0-255 (default: configured, 140)",
	}
	props["threshold_high"] = map[string]interface{}{
		"type":        "integer",
		"description": "Canny high threshold, 0-255 (default: configured, 200)",
	}
	return props
}

func measureOverrideProperties(props map[string]interface{}) map[string]interface{} {
	props["calibration_mm_per_pixel"] = map[string]interface{}{
		"type":        "number",
		"description": "Millimeters per pixel (default: configured, 0.009375)",
	}
	props["scan_row"] = map[string]interface{}{
		"type":        "number",
		"description": "Image row where the left edge is sampled, inside the frame height (omitted: configured, 240)",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Frames
		{
			Name:        "frame_load",
			Description: "Load a frame image and return its dimensions, format and whether it will be resized to the calibrated frame size before measuring.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Measurement
		{
			Name:        "filament_measure",
			Description: "Measure the filament width in a frame. Detects the two filament edges and returns the perpendicular gap in millimeters and pixels. width_mm is 0 unless status is \"ok\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measureOverrideProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "filament_measure_lines",
			Description: "Measure the filament width from polar lines (rho, theta) supplied by the caller, in detector order. No image is read.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measureOverrideProperties(map[string]interface{}{
					"lines": map[string]interface{}{
						"type":        "array",
						"description": "Lines as rho = x*cos(theta) + y*sin(theta), strongest first",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"rho": map[string]interface{}{
									"type":        "number",
									"description": "Signed distance from the origin in pixels",
								},
								"theta": map[string]interface{}{
									"type":        "number",
									"description": "Angle of the normal in radians",
								},
							},
							"required": []string{"rho", "theta"},
						},
					},
				}),
				"required": []string{"lines"},
			},
		},

		// Detection
		{
			Name:        "filament_detect_lines",
			Description: "Detect straight lines in a frame with Canny edges and the Hough transform. Returns polar lines ranked by votes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": cannyProperties(map[string]interface{}{
					"path": pathProperty(),
					"min_votes": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum Hough votes for a line (default: configured, 100)",
					},
					"max_lines": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of lines returned (default: configured, 50)",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "filament_edge_detect",
			Description: "Run Canny edge detection on a frame and return the edge map as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": cannyProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},

		// Display
		{
			Name:        "filament_overlay",
			Description: "Measure a frame and return it annotated with the detected lines, the chosen edges, the measured segment and the width.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"show_candidates": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw every detected line",
						"default":     true,
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw a 1 mm reference grid",
						"default":     false,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Also save the overlay to this path; the extension picks the format",
					},
				},
				"required": []string{"path"},
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
