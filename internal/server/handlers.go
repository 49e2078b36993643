package server

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/OlivierCrt/Projet-groupe4/internal/config"
	"github.com/OlivierCrt/Projet-groupe4/internal/detection"
	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "marker_detect").
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Source Image
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Marker Detection
	case "marker_color_ranges":
		return s.handleMarkerColorRanges(args)
	case "marker_detect":
		return s.handleMarkerDetect(args)
	case "marker_dump":
		return s.handleMarkerDump(args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Marker Detection Handlers ===

// colorRangeInfo is one catalog entry as reported by marker_color_ranges.
type colorRangeInfo struct {
	detection.ColorRange
	Swatch string `json:"swatch"`
	Center string `json:"center"`
}

// handleMarkerColorRanges reports the ranges and threshold of the pipeline
// marker_detect would build with no overrides.
func (s *Server) handleMarkerColorRanges(_ json.RawMessage) (interface{}, error) {
	detCfg, err := s.cfg.Detection()
	if err != nil {
		return nil, err
	}
	pipeline, err := detection.NewPipeline(detCfg)
	if err != nil {
		return nil, err
	}

	active := pipeline.Config()
	ranges := make([]colorRangeInfo, len(active.Catalog))
	for i, r := range active.Catalog {
		ranges[i] = colorRangeInfo{ColorRange: r, Swatch: r.Class.Swatch(), Center: r.Center()}
	}
	return map[string]interface{}{
		"ranges":            ranges,
		"object_threshold":  active.Classifier.Threshold,
		"largest_component": active.LargestComponent,
	}, nil
}

type markerDetectArgs struct {
	Path             string          `json:"path"`
	Threshold        *int            `json:"threshold,omitempty"`
	LargestComponent *bool           `json:"largest_component,omitempty"`
	MaxWidth         *int            `json:"max_width,omitempty"`
	Region           *imaging.Region `json:"region,omitempty"`
}

// callConfig layers the call's overrides on top of the server config.
func (s *Server) callConfig(a markerDetectArgs) *config.Config {
	cfg := *s.cfg
	if a.Threshold != nil {
		cfg.ObjectThreshold = a.Threshold
	}
	if a.LargestComponent != nil {
		cfg.LargestComponent = a.LargestComponent
	}
	if a.MaxWidth != nil {
		cfg.MaxWidth = a.MaxWidth
	}
	if a.Region != nil {
		cfg.Region = a.Region
	}
	return &cfg
}

// detect loads, prepares and analyzes the image named by a. It returns the
// prepared image too, so dumps can draw on the same frame.
func (s *Server) detect(a markerDetectArgs) (*detection.Pipeline, *detection.Result, image.Image, error) {
	cfg := s.callConfig(a)
	detCfg, err := cfg.Detection()
	if err != nil {
		return nil, nil, nil, err
	}
	pipeline, err := detection.NewPipeline(detCfg)
	if err != nil {
		return nil, nil, nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	prepared, err := imaging.Prepare(img, cfg.Prepare())
	if err != nil {
		return nil, nil, nil, err
	}

	res := pipeline.Run(imaging.FromImage(prepared))
	if os.Getenv("MARKER_LOG_LEVEL") == "debug" {
		log.Printf("marker_detect %s: %dx%d, any_detected=%v", a.Path, res.Report.Width, res.Report.Height, res.Report.AnyDetected)
	}
	return pipeline, res, prepared, nil
}

func (s *Server) handleMarkerDetect(args json.RawMessage) (interface{}, error) {
	var a markerDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, res, _, err := s.detect(a)
	if err != nil {
		return nil, err
	}
	return res.Report, nil
}

type markerDumpArgs struct {
	markerDetectArgs
	OutputDir string `json:"output_dir"`
}

// markerDumpResult reports written files and per-color failures. A failure
// for one color does not fail the call.
type markerDumpResult struct {
	Report detection.Report `json:"report"`
	Files  []string         `json:"files"`
	Errors string           `json:"errors,omitempty"`
}

func (s *Server) handleMarkerDump(args json.RawMessage) (interface{}, error) {
	var a markerDumpArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}

	pipeline, res, prepared, err := s.detect(a.markerDetectArgs)
	if err != nil {
		return nil, err
	}

	out := markerDumpResult{Report: res.Report}
	dump, err := pipeline.Dump(a.OutputDir, res, prepared)
	out.Files = dump.Files
	if err != nil {
		log.Printf("marker_dump %s: %v", a.Path, err)
		out.Errors = err.Error()
	}
	return out, nil
}
