package server

import "github.com/ironsheep/aigis-cutter/internal/cutter"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// cropProperties are the parameters shared by the autocrop tools.
func cropProperties() map[string]interface{} {
	return map[string]interface{}{
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        cutter.Modes(),
			"description": "Crop strategy. pc-square and pc-count search for a fixed-size game window; edge anchors on black letterbox bars; ios removes the home-indicator bar without searching; ios-android finds a 3:2 area inside letterboxing. Default pc-count",
			"default":     cutter.ModePCCount.String(),
		},
		"width": map[string]interface{}{
			"type":        "integer",
			"description": "Target width in pixels for pc-square, pc-count and edge. Taken from zoom when width and height are both omitted",
		},
		"height": map[string]interface{}{
			"type":        "integer",
			"description": "Target height in pixels for pc-square, pc-count and edge",
		},
		"zoom": map[string]interface{}{
			"type":        "number",
			"description": "Browser zoom percentage used to derive the target size from 960x640. Default 100",
			"default":     cutter.DefaultZoom,
		},
		"delta": map[string]interface{}{
			"type":        "integer",
			"description": "Luminance tolerance for the threshold scorers. Default 6",
			"default":     cutter.DefaultDelta,
		},
		"homebar_height": map[string]interface{}{
			"type":        "integer",
			"description": "Home-indicator height removed by the ios mode. Default 32",
			"default":     cutter.DefaultHomebarHeight,
		},
	}
}

func withPath(props map[string]interface{}) map[string]interface{} {
	props["path"] = pathProperty()
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	autocropProps := withPath(cropProperties())
	autocropProps["include_image"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Also return the cropped image as base64 PNG. Default false",
		"default":     false,
	}

	previewProps := withPath(cropProperties())
	previewProps["outline_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Outline color as hex (e.g. '#FF0000'). Default red",
		"default":     "#FF0000",
	}

	batchProps := cropProperties()
	batchProps["paths"] = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Image files, directories or glob patterns. Outputs go to a new AigisCutter_<timestamp> directory beside the first image",
	}
	batchProps["workers"] = map[string]interface{}{
		"type":        "integer",
		"description": "Images processed in parallel. Default: number of CPUs",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and aspect ratio.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withPath(map[string]interface{}{}),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withPath(map[string]interface{}{}),
				"required":   []string{"path"},
			},
		},

		// Auto-crop
		{
			Name:        "image_autocrop",
			Description: "Find the game area in a screenshot and return its rectangle. The search prefers the crop whose border lies on the strongest luminance edges.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": autocropProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_autocrop_preview",
			Description: "Run image_autocrop and return the whole screenshot with the chosen area outlined and the outside dimmed.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": previewProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_autocrop_batch",
			Description: "Crop many screenshots to PNG files in a new output directory. Failures are listed in error.txt there.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": batchProps,
				"required":   []string{"paths"},
			},
		},
		{
			Name:        "image_zoom_presets",
			Description: "List the target sizes for common browser zoom levels.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop an explicit rectangle from an image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Crop width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Crop height in pixels",
					},
				},
				"required": []string{"path", "x", "y", "width", "height"},
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
