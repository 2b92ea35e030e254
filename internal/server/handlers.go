package server

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"

	"github.com/PLudrak/mozaiker/internal/config"
	"github.com/PLudrak/mozaiker/internal/imaging"
	"github.com/PLudrak/mozaiker/internal/mosaic"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "mosaic_build").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	case "mosaic_build":
		return s.handleMosaicBuild(args)
	case "mosaic_catalog":
		return s.handleMosaicCatalog(args)
	case "mosaic_reduce":
		return s.handleMosaicReduce(args)
	case "mosaic_match_color":
		return s.handleMosaicMatchColor(args)
	case "mosaic_color_distance":
		return s.handleMosaicColorDistance(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Mosaic Handlers ===

type mosaicBuildArgs struct {
	MainImage      string `json:"main_image"`
	TileDir        string `json:"tile_dir"`
	Output         string `json:"output"`
	Scale          int    `json:"scale"`
	TileResolution int    `json:"tile_resolution"`
	PaletteSize    int    `json:"palette_size"`
	Workers        int    `json:"workers"`
	JPEGQuality    int    `json:"jpeg_quality"`
	Simplified     string `json:"simplified"`
	TilesDir       string `json:"tiles_dir"`
	Manifest       string `json:"manifest"`
	Reload         bool   `json:"reload"`
}

// toConfig layers the arguments over config.Default. Zero values keep the
// default; optional artifacts are only written when a path is given.
func (a mosaicBuildArgs) toConfig() *config.Config {
	cfg := config.Default()
	cfg.MainImage = a.MainImage
	cfg.TileDir = a.TileDir
	cfg.Output.Mosaic = a.Output
	cfg.Output.Simplified = a.Simplified
	cfg.Output.TilesDir = a.TilesDir
	cfg.Output.Manifest = a.Manifest
	if a.Scale != 0 {
		cfg.Scale = a.Scale
	}
	if a.TileResolution != 0 {
		cfg.TileResolution = a.TileResolution
	}
	if a.PaletteSize != 0 {
		cfg.PaletteSize = a.PaletteSize
	}
	if a.Workers != 0 {
		cfg.Workers = a.Workers
	}
	if a.JPEGQuality != 0 {
		cfg.Output.JPEGQuality = a.JPEGQuality
	}
	return cfg
}

// MosaicBuildResult is returned by mosaic_build.
type MosaicBuildResult struct {
	Output string            `json:"output"`
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Rows   int               `json:"rows"`
	Cols   int               `json:"cols"`
	Tiles  int               `json:"tiles"`
	Stats  mosaic.MatchStats `json:"stats"`
}

func (s *Server) handleMosaicBuild(args json.RawMessage) (interface{}, error) {
	var a mosaicBuildArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg := a.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	img, err := s.loadImage(cfg.MainImage, a.Reload)
	if err != nil {
		return nil, err
	}
	res, err := mosaic.RunImage(img, cfg, s.log.WithField("tool", "mosaic_build"))
	if err != nil {
		return nil, err
	}

	b := res.Mosaic.Bounds()
	return &MosaicBuildResult{
		Output: cfg.Output.Mosaic,
		Width:  b.Dx(),
		Height: b.Dy(),
		Rows:   res.Grid.Rows,
		Cols:   res.Grid.Cols,
		Tiles:  res.Catalog.Len(),
		Stats:  res.Stats,
	}, nil
}

type mosaicCatalogArgs struct {
	TileDir        string `json:"tile_dir"`
	TileResolution int    `json:"tile_resolution"`
	PaletteSize    int    `json:"palette_size"`
}

// CatalogTile describes one tile in a mosaic_catalog result.
type CatalogTile struct {
	ID     int    `json:"id"`
	Path   string `json:"path"`
	Color  string `json:"color"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MosaicCatalogResult is returned by mosaic_catalog.
type MosaicCatalogResult struct {
	Dir   string        `json:"dir"`
	Count int           `json:"count"`
	Tiles []CatalogTile `json:"tiles"`
}

func (s *Server) loadCatalog(dir string, tileRes, paletteSize int) (*mosaic.Catalog, error) {
	if dir == "" {
		return nil, fmt.Errorf("tile_dir is required")
	}
	return mosaic.BuildCatalog(dir, mosaic.CatalogOptions{
		TileRes:       tileRes,
		PaletteSize:   paletteSize,
		Workers:       config.Default().Workers,
		SkipNormalize: tileRes == 0,
		Log:           s.log,
	})
}

func (s *Server) handleMosaicCatalog(args json.RawMessage) (interface{}, error) {
	var a mosaicCatalogArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := s.loadCatalog(a.TileDir, a.TileResolution, a.PaletteSize)
	if err != nil {
		return nil, err
	}

	out := &MosaicCatalogResult{Dir: a.TileDir, Count: c.Len()}
	for _, t := range c.Tiles() {
		out.Tiles = append(out.Tiles, CatalogTile{
			ID:     t.ID,
			Path:   t.Path,
			Color:  t.Color.Hex(),
			Width:  t.Width(),
			Height: t.Height(),
		})
	}
	return out, nil
}

type mosaicReduceArgs struct {
	Path         string `json:"path"`
	Scale        int    `json:"scale"`
	PaletteSize  int    `json:"palette_size"`
	IncludeCells bool   `json:"include_cells"`
	Reload       bool   `json:"reload"`
}

// PaletteEntry is one grid color and the number of cells using it.
type PaletteEntry struct {
	Color string `json:"color"`
	Cells int    `json:"cells"`
}

// MosaicReduceResult is returned by mosaic_reduce.
type MosaicReduceResult struct {
	Rows    int            `json:"rows"`
	Cols    int            `json:"cols"`
	Palette []PaletteEntry `json:"palette"`
	Cells   []string       `json:"cells,omitempty"`
}

func (s *Server) handleMosaicReduce(args json.RawMessage) (interface{}, error) {
	var a mosaicReduceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = config.DefaultScale
	}
	if a.PaletteSize == 0 {
		a.PaletteSize = config.DefaultPaletteSize
	}

	img, err := s.loadImage(a.Path, a.Reload)
	if err != nil {
		return nil, err
	}
	g, err := mosaic.Reduce(img, a.Scale, a.PaletteSize)
	if err != nil {
		return nil, err
	}

	counts := make(map[imaging.RGBColor]int)
	for _, c := range g.Colors {
		counts[c]++
	}
	out := &MosaicReduceResult{Rows: g.Rows, Cols: g.Cols}
	for c, n := range counts {
		out.Palette = append(out.Palette, PaletteEntry{Color: c.Hex(), Cells: n})
	}
	sort.Slice(out.Palette, func(i, j int) bool {
		if out.Palette[i].Cells != out.Palette[j].Cells {
			return out.Palette[i].Cells > out.Palette[j].Cells
		}
		return out.Palette[i].Color < out.Palette[j].Color
	})

	if a.IncludeCells {
		out.Cells = make([]string, len(g.Colors))
		for i, c := range g.Colors {
			out.Cells[i] = c.Hex()
		}
	}
	return out, nil
}

type mosaicMatchColorArgs struct {
	TileDir     string `json:"tile_dir"`
	Color       string `json:"color"`
	Path        string `json:"path"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	PaletteSize int    `json:"palette_size"`
}

// queryColor returns the explicit color, or the pixel sampled from Path.
func (s *Server) queryColor(a mosaicMatchColorArgs) (imaging.RGBColor, error) {
	if a.Color != "" {
		return imaging.ParseHex(a.Color)
	}
	if a.Path == "" {
		return imaging.RGBColor{}, fmt.Errorf("either color or path is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return imaging.RGBColor{}, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// MosaicMatchColorResult is returned by mosaic_match_color.
type MosaicMatchColorResult struct {
	Query     string  `json:"query"`
	TileID    int     `json:"tile_id"`
	TilePath  string  `json:"tile_path"`
	TileColor string  `json:"tile_color"`
	Distance  float64 `json:"distance"`
}

func (s *Server) handleMosaicMatchColor(args json.RawMessage) (interface{}, error) {
	var a mosaicMatchColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	query, err := s.queryColor(a)
	if err != nil {
		return nil, err
	}
	c, err := s.loadCatalog(a.TileDir, 0, a.PaletteSize)
	if err != nil {
		return nil, err
	}

	id, d, err := mosaic.NewMatcher(mosaic.MatchOptions{Log: s.log}).Nearest(query, c)
	if err != nil {
		return nil, err
	}
	t, _ := c.Tile(id)
	return &MosaicMatchColorResult{
		Query:     query.Hex(),
		TileID:    id,
		TilePath:  t.Path,
		TileColor: t.Color.Hex(),
		Distance:  d,
	}, nil
}

type colorDistanceArgs struct {
	A string `json:"a"`
	B string `json:"b"`
}

// ColorDistanceResult is returned by mosaic_color_distance.
type ColorDistanceResult struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
}

func (s *Server) handleMosaicColorDistance(args json.RawMessage) (interface{}, error) {
	var a colorDistanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ca, err := imaging.ParseHex(a.A)
	if err != nil {
		return nil, fmt.Errorf("invalid color a: %w", err)
	}
	cb, err := imaging.ParseHex(a.B)
	if err != nil {
		return nil, fmt.Errorf("invalid color b: %w", err)
	}
	return &ColorDistanceResult{
		A:        ca.Hex(),
		B:        cb.Hex(),
		Distance: mosaic.Distance(ca, cb),
	}, nil
}

// loadImage returns the cached decode of path, decoding again when reload is
// set.
func (s *Server) loadImage(path string, reload bool) (image.Image, error) {
	if reload {
		s.cache.Evict(path)
	}
	return s.cache.Load(path)
}

// === Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}
