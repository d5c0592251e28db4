package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/filament-gauge/internal/detection"
	"github.com/ironsheep/filament-gauge/internal/geometry"
	"github.com/ironsheep/filament-gauge/internal/imaging"
	"github.com/ironsheep/filament-gauge/internal/measure"
	"github.com/ironsheep/filament-gauge/internal/monitor"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "frame_load", "filament_measure").
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies the server configuration for omitted parameters
//  3. Loads and normalizes the frame through the cache as needed
//  4. Calls the detection/measure/imaging functions
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Frames
	case "frame_load":
		return s.handleFrameLoad(args)

	// Measurement
	case "filament_measure":
		return s.handleFilamentMeasure(args)
	case "filament_measure_lines":
		return s.handleFilamentMeasureLines(args)

	// Detection
	case "filament_detect_lines":
		return s.handleFilamentDetectLines(args)
	case "filament_edge_detect":
		return s.handleFilamentEdgeDetect(args)

	// Display
	case "filament_overlay":
		return s.handleFilamentOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

var errNoPath = errors.New("path is required")

// loadFrame returns the normalized frame at path.
func (s *Server) loadFrame(path string) (image.Image, error) {
	if path == "" {
		return nil, errNoPath
	}
	return imaging.LoadFrame(s.cache, path, s.cfg.FrameWidth, s.cfg.FrameHeight)
}

// measureConfig applies per-call overrides to the server's measurement
// config. A nil override keeps the configured setting.
func (s *Server) measureConfig(calibration, scanRow *float64) (measure.Config, error) {
	cfg := s.cfg.Measure
	if calibration != nil {
		cfg.CalibrationMMPerPixel = *calibration
	}
	if scanRow != nil {
		cfg.ScanRow = *scanRow
	}
	if err := cfg.Validate(); err != nil {
		return measure.Config{}, err
	}
	if cfg.ScanRow >= float64(s.cfg.FrameHeight) {
		return measure.Config{}, fmt.Errorf("scan row %g outside a %d pixel high frame", cfg.ScanRow, s.cfg.FrameHeight)
	}
	return cfg, nil
}

// === Frame Handlers ===

type frameLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFrameLoad(args json.RawMessage) (interface{}, error) {
	var a frameLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errNoPath
	}
	return imaging.LoadFrameInfo(s.cache, a.Path, s.cfg.FrameWidth, s.cfg.FrameHeight)
}

// === Measurement Handlers ===

type filamentMeasureArgs struct {
	Path                  string   `json:"path"`
	CalibrationMMPerPixel *float64 `json:"calibration_mm_per_pixel"`
	ScanRow               *float64 `json:"scan_row"`
}

// MeasureResult is the filament_measure response.
type MeasureResult struct {
	Path string `json:"path"`
	measure.Result
	LineCount int     `json:"line_count"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

func (s *Server) handleFilamentMeasure(args json.RawMessage) (interface{}, error) {
	var a filamentMeasureArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.measureConfig(a.CalibrationMMPerPixel, a.ScanRow)
	if err != nil {
		return nil, err
	}
	img, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}

	p := *s.pipeline
	p.Config.Measure = cfg
	report := p.Process(monitor.Frame{Name: a.Path, Image: img})

	return &MeasureResult{
		Path:      a.Path,
		Result:    report.Result,
		LineCount: len(report.Candidates),
		ElapsedMS: float64(report.Elapsed) / float64(time.Millisecond),
	}, nil
}

type filamentMeasureLinesArgs struct {
	Lines                 []geometry.PolarLine `json:"lines"`
	CalibrationMMPerPixel *float64             `json:"calibration_mm_per_pixel"`
	ScanRow               *float64             `json:"scan_row"`
}

func (s *Server) handleFilamentMeasureLines(args json.RawMessage) (interface{}, error) {
	var a filamentMeasureLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := s.measureConfig(a.CalibrationMMPerPixel, a.ScanRow)
	if err != nil {
		return nil, err
	}
	return measure.Measure(a.Lines, cfg), nil
}

// === Detection Handlers ===

type filamentDetectLinesArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
	MinVotes      int    `json:"min_votes"`
	MaxLines      int    `json:"max_lines"`
}

func (s *Server) handleFilamentDetectLines(args json.RawMessage) (interface{}, error) {
	var a filamentDetectLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = s.cfg.CannyLow
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = s.cfg.CannyHigh
	}
	params := s.cfg.Hough
	if a.MinVotes > 0 {
		params.Threshold = a.MinVotes
	}
	if a.MaxLines > 0 {
		params.MaxLines = a.MaxLines
	}
	img, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	return detection.DetectLines(img, a.ThresholdLow, a.ThresholdHigh, params)
}

type filamentEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

// EdgeDetectResult is the filament_edge_detect response.
type EdgeDetectResult struct {
	imaging.ImageResult
	EdgePixels int `json:"edge_pixels"`
}

func (s *Server) handleFilamentEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a filamentEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = s.cfg.CannyLow
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = s.cfg.CannyHigh
	}
	img, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}

	edges := detection.DetectEdges(img, a.ThresholdLow, a.ThresholdHigh)
	encoded, err := imaging.EncodePNGBase64(edges.Image())
	if err != nil {
		return nil, err
	}
	return &EdgeDetectResult{ImageResult: *encoded, EdgePixels: edges.Count()}, nil
}

// === Display Handlers ===

type filamentOverlayArgs struct {
	Path           string `json:"path"`
	ShowCandidates *bool  `json:"show_candidates"`
	ShowGrid       bool   `json:"show_grid"`
	OutputPath     string `json:"output_path"`
}

// OverlayResult is the filament_overlay response.
type OverlayResult struct {
	imaging.ImageResult
	WidthMM    float64        `json:"width_mm"`
	Status     measure.Status `json:"status"`
	OutputPath string         `json:"output_path,omitempty"`
}

func (s *Server) handleFilamentOverlay(args json.RawMessage) (interface{}, error) {
	var a filamentOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loadFrame(a.Path)
	if err != nil {
		return nil, err
	}
	report := s.pipeline.Process(monitor.Frame{Name: a.Path, Image: img})

	opts := imaging.DefaultOverlayOptions()
	if a.ShowCandidates == nil || *a.ShowCandidates {
		opts.Candidates = make([]geometry.PolarLine, len(report.Candidates))
		for i, c := range report.Candidates {
			opts.Candidates[i] = c.Line
		}
	}
	if a.ShowGrid {
		opts.GridSpacing = imaging.MillimeterGrid(s.cfg.Measure.CalibrationMMPerPixel)
	}

	out, err := imaging.RenderOverlay(img, report.Result, opts)
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.SaveImage(out, a.OutputPath); err != nil {
			return nil, err
		}
	}
	encoded, err := imaging.EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{
		ImageResult: *encoded,
		WidthMM:     report.Result.WidthMM,
		Status:      report.Result.Status,
		OutputPath:  a.OutputPath,
	}, nil
}
