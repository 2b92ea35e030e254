package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func intProp(desc string, def int) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc, "default": def}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: "mosaic_build",
			Description: "Build a photo mosaic of the main image from a directory of tile images and save it. " +
				"Returns the grid size, output dimensions and tile usage statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"main_image":      stringProp("Absolute path to the image the mosaic reproduces"),
					"tile_dir":        stringProp("Absolute path to a flat directory of tile images"),
					"output":          stringProp("Path the mosaic is written to; format follows the extension"),
					"scale":           intProp("Main-image pixels per grid cell", 10),
					"tile_resolution": intProp("Edge length in pixels of each tile in the mosaic", 100),
					"palette_size":    intProp("Colors used to simplify images before reading colors", 16),
					"workers":         intProp("Parallel workers for decoding and matching (0 = all CPUs)", 0),
					"jpeg_quality":    intProp("Quality of JPEG outputs (1-100)", 90),
					"simplified":      stringProp("Optional path for the simplified main image"),
					"tiles_dir":       stringProp("Optional directory receiving the normalized tiles"),
					"manifest":        stringProp("Optional path for a YAML manifest of the tiles used"),
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Decode the image again even if it is cached",
						"default":     false,
					},
				},
				"required": []string{"main_image", "tile_dir", "output"},
			},
		},
		{
			Name:        "mosaic_catalog",
			Description: "Decode every image in a tile directory and list each tile with its id and representative color. Undecodable files are skipped.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tile_dir":        stringProp("Absolute path to a flat directory of tile images"),
					"tile_resolution": intProp("Normalize tiles to this square size; 0 lists them at their decoded size", 0),
					"palette_size":    intProp("Colors used to simplify a tile before averaging it", 16),
				},
				"required": []string{"tile_dir"},
			},
		},
		{
			Name:        "mosaic_reduce",
			Description: "Reduce an image to the grid of cell colors a mosaic would use, and report the grid size and palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":         stringProp("Absolute path to the image"),
					"scale":        intProp("Image pixels per grid cell", 10),
					"palette_size": intProp("Number of colors to reduce to", 16),
					"include_cells": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return every cell color in row-major order",
						"default":     false,
					},
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Decode the image again even if it is cached",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "mosaic_match_color",
			Description: "Find the tile in a tile directory whose representative color is nearest to the given color, or to the pixel at (x, y) of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"tile_dir":     stringProp("Absolute path to a flat directory of tile images"),
					"color":        stringProp("Hex color (e.g. '#3366cc'); takes precedence over path"),
					"path":         stringProp("Image to sample the query color from"),
					"x":            intProp("X coordinate of the sampled pixel", 0),
					"y":            intProp("Y coordinate of the sampled pixel", 0),
					"palette_size": intProp("Colors used to simplify a tile before averaging it", 16),
				},
				"required": []string{"tile_dir"},
			},
		},
		{
			Name:        "mosaic_color_distance",
			Description: "Compute the luminance-weighted distance between two colors, as used to match tiles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"a": stringProp("First hex color"),
					"b": stringProp("Second hex color"),
				},
				"required": []string{"a", "b"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": stringProp("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
	}
}
