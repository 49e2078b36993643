package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OlivierCrt/Projet-groupe4/internal/config"
)

// createTestImageFile writes a black PNG with an optional filled rectangle
// and returns its path.
func createTestImageFile(t *testing.T, width, height int, rect image.Rectangle, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(rect) {
				img.Set(x, y, c)
			} else {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

var markerYellow = color.RGBA{230, 210, 40, 255}

// callTool sends a tools/call request and decodes the text content.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &decoded); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
	return decoded, nil
}

// detectionFor returns the detection entry for class from a report.
func detectionFor(t *testing.T, report map[string]interface{}, class string) map[string]interface{} {
	t.Helper()
	for _, d := range report["detections"].([]interface{}) {
		entry := d.(map[string]interface{})
		if entry["class"] == class {
			return entry
		}
	}
	t.Fatalf("no detection for %s", class)
	return nil
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, image.Rectangle{}, nil)

	result, mcpErr := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	if result["width"] != float64(100) || result["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v, want 100x80", result["width"], result["height"])
	}
	if result["format"] != "png" {
		t.Errorf("format: got %v, want png", result["format"])
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)

	_, mcpErr := callTool(t, s, "image_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	if mcpErr == nil {
		t.Fatal("expected error for non-existent file")
	}
	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New(nil)

	_, mcpErr := callTool(t, s, "image_crop", map[string]interface{}{})
	if mcpErr == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !strings.Contains(mcpErr.Data.(string), "unknown tool") {
		t.Errorf("Error data: got %v", mcpErr.Data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)

	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{invalid`),
	})

	if resp.Error == nil {
		t.Fatal("expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 50, 50, image.Rect(10, 10, 20, 20), markerYellow)

	result, mcpErr := callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 15, "y": 15})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if result["hex"] != "#E6D228" {
		t.Errorf("hex: got %v, want #E6D228", result["hex"])
	}

	_, mcpErr = callTool(t, s, "image_sample_color", map[string]interface{}{"path": imgPath, "x": 50, "y": 0})
	if mcpErr == nil {
		t.Error("expected error for out-of-bounds sample")
	}
}

func TestHandleToolsCall_MarkerColorRanges(t *testing.T) {
	s := New(nil)

	result, mcpErr := callTool(t, s, "marker_color_ranges", map[string]interface{}{})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	if result["object_threshold"] != float64(30) {
		t.Errorf("object_threshold: got %v, want 30", result["object_threshold"])
	}

	ranges := result["ranges"].([]interface{})
	if len(ranges) != 3 {
		t.Fatalf("ranges: got %d, want 3", len(ranges))
	}
	yellow := ranges[0].(map[string]interface{})
	if yellow["class"] != "yellow" || yellow["red_min"] != float64(200) || yellow["swatch"] != "#FFD700" {
		t.Errorf("yellow range: got %v", yellow)
	}
	if yellow["center"] != "#E3D932" {
		t.Errorf("yellow center: got %v, want #E3D932", yellow["center"])
	}
}

func TestHandleToolsCall_MarkerColorRanges_Configured(t *testing.T) {
	threshold := 12
	s := New(&config.Config{
		ObjectThreshold: &threshold,
		Colors: map[string]config.RangeConfig{
			"orange": {Red: [2]int{100, 200}, Green: [2]int{10, 60}, Blue: [2]int{0, 20}},
		},
	})

	result, mcpErr := callTool(t, s, "marker_color_ranges", map[string]interface{}{})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if result["object_threshold"] != float64(12) {
		t.Errorf("object_threshold: got %v, want 12", result["object_threshold"])
	}
	if result["largest_component"] != false {
		t.Errorf("largest_component: got %v, want false", result["largest_component"])
	}
	orange := result["ranges"].([]interface{})[2].(map[string]interface{})
	if orange["red_min"] != float64(100) || orange["blue_max"] != float64(20) {
		t.Errorf("orange range: got %v", orange)
	}
}

func TestHandleToolsCall_MarkerColorRanges_InvalidConfig(t *testing.T) {
	threshold := -1
	s := New(&config.Config{ObjectThreshold: &threshold})

	if _, mcpErr := callTool(t, s, "marker_color_ranges", map[string]interface{}{}); mcpErr == nil {
		t.Error("expected error for an invalid server config")
	}
}

func TestHandleToolsCall_MarkerDetect(t *testing.T) {
	s := New(nil)
	// 6x6 yellow block with top-left (x=12, y=7)
	imgPath := createTestImageFile(t, 40, 30, image.Rect(12, 7, 18, 13), markerYellow)

	result, mcpErr := callTool(t, s, "marker_detect", map[string]interface{}{"path": imgPath})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	if result["any_detected"] != true {
		t.Fatal("any_detected should be true")
	}

	yellow := detectionFor(t, result, "yellow")
	if yellow["detected"] != true || yellow["pixel_count"] != float64(36) {
		t.Errorf("yellow: got %v", yellow)
	}
	centroid := yellow["centroid"].(map[string]interface{})
	if centroid["x"] != float64(14) || centroid["y"] != float64(9) {
		t.Errorf("centroid: got %v, want (14,9)", centroid)
	}
	if yellow["radius"] != float64(5) {
		t.Errorf("radius: got %v, want 5", yellow["radius"])
	}

	blue := detectionFor(t, result, "blue")
	if blue["detected"] != false {
		t.Errorf("blue should not be detected: %v", blue)
	}
	if _, ok := blue["centroid"]; ok {
		t.Error("undetected class should omit centroid")
	}
}

func TestHandleToolsCall_MarkerDetect_Overrides(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 30, image.Rect(12, 7, 18, 13), markerYellow)

	tests := []struct {
		name     string
		args     map[string]interface{}
		detected bool
	}{
		{"high threshold", map[string]interface{}{"threshold": 36}, false},
		{"threshold just below count", map[string]interface{}{"threshold": 35}, true},
		{"region excludes block", map[string]interface{}{"region": map[string]interface{}{"x1": 20, "y1": 0, "x2": 40, "y2": 30}}, false},
		{"region includes block", map[string]interface{}{"region": map[string]interface{}{"x1": 10, "y1": 5, "x2": 30, "y2": 20}}, true},
		{"largest component", map[string]interface{}{"largest_component": true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath
			result, mcpErr := callTool(t, s, "marker_detect", tt.args)
			if mcpErr != nil {
				t.Fatalf("Unexpected error: %v", mcpErr)
			}
			yellow := detectionFor(t, result, "yellow")
			if yellow["detected"] != tt.detected {
				t.Errorf("detected: got %v, want %v", yellow["detected"], tt.detected)
			}
		})
	}

	// Overrides are per call only.
	if s.cfg.ObjectThreshold != nil || s.cfg.Region != nil {
		t.Error("call overrides leaked into the server config")
	}
}

func TestHandleToolsCall_MarkerDetect_RegionCoordinates(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 30, image.Rect(12, 7, 18, 13), markerYellow)

	result, mcpErr := callTool(t, s, "marker_detect", map[string]interface{}{
		"path":   imgPath,
		"region": map[string]interface{}{"x1": 10, "y1": 5, "x2": 30, "y2": 20},
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	if result["width"] != float64(20) || result["height"] != float64(15) {
		t.Errorf("frame: got %vx%v, want 20x15", result["width"], result["height"])
	}
	centroid := detectionFor(t, result, "yellow")["centroid"].(map[string]interface{})
	if centroid["x"] != float64(4) || centroid["y"] != float64(4) {
		t.Errorf("centroid: got %v, want (4,4) relative to the region", centroid)
	}
}

func TestHandleToolsCall_MarkerDetect_InvalidOverrides(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 20, 20, image.Rectangle{}, nil)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"negative threshold", map[string]interface{}{"threshold": -1}},
		{"negative max width", map[string]interface{}{"max_width": -10}},
		{"region out of bounds", map[string]interface{}{"region": map[string]interface{}{"x1": 0, "y1": 0, "x2": 50, "y2": 10}}},
		{"empty region", map[string]interface{}{"region": map[string]interface{}{"x1": 5, "y1": 5, "x2": 5, "y2": 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath
			if _, mcpErr := callTool(t, s, "marker_detect", tt.args); mcpErr == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleToolsCall_MarkerDetect_NothingDetected(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 4, 4, image.Rectangle{}, nil)

	result, mcpErr := callTool(t, s, "marker_detect", map[string]interface{}{"path": imgPath})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if result["any_detected"] != false {
		t.Error("any_detected should be false")
	}
	if n := len(result["detections"].([]interface{})); n != 3 {
		t.Errorf("detections: got %d, want 3", n)
	}
}

func TestHandleToolsCall_MarkerDetect_TextMatrix(t *testing.T) {
	s := New(nil)

	// 2x2 frame: one orange pixel, threshold 0 makes it an object.
	path := filepath.Join(t.TempDir(), "frame.txt")
	contents := "2 2 3\n200 0\n0 0\n40 0\n0 0\n5 0\n0 0\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write matrix: %v", err)
	}

	result, mcpErr := callTool(t, s, "marker_detect", map[string]interface{}{"path": path, "threshold": 0})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	orange := detectionFor(t, result, "orange")
	if orange["detected"] != true || orange["radius"] != float64(0) {
		t.Errorf("orange: got %v", orange)
	}
}

func TestHandleToolsCall_MarkerDump(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 30, image.Rect(12, 7, 18, 13), markerYellow)
	outDir := filepath.Join(t.TempDir(), "dumps")

	result, mcpErr := callTool(t, s, "marker_dump", map[string]interface{}{"path": imgPath, "output_dir": outDir})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}

	files := result["files"].([]interface{})
	if len(files) != 3 {
		t.Fatalf("files: got %v, want 3 entries", files)
	}
	if _, ok := result["errors"]; ok {
		t.Errorf("unexpected errors: %v", result["errors"])
	}

	data, err := os.ReadFile(filepath.Join(outDir, "obj_yellow.dat"))
	if err != nil {
		t.Fatalf("failed to read dump: %v", err)
	}
	if !strings.HasPrefix(string(data), "30  40  3\n") {
		t.Errorf("dump header: got %q", strings.SplitN(string(data), "\n", 2)[0])
	}
	if _, err := os.Stat(filepath.Join(outDir, "overlay.png")); err != nil {
		t.Errorf("overlay.png not written: %v", err)
	}

	report := result["report"].(map[string]interface{})
	if report["any_detected"] != true {
		t.Error("report.any_detected should be true")
	}
}

func TestHandleToolsCall_MarkerDump_MissingOutputDir(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 10, 10, image.Rectangle{}, nil)

	_, mcpErr := callTool(t, s, "marker_dump", map[string]interface{}{"path": imgPath})
	if mcpErr == nil {
		t.Fatal("expected error when output_dir is missing")
	}
}

func TestHandleToolsCall_MarkerDump_UnwritableDir(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 30, image.Rect(12, 7, 18, 13), markerYellow)

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	// Dump failures are reported in the result, not as a call failure.
	result, mcpErr := callTool(t, s, "marker_dump", map[string]interface{}{
		"path":       imgPath,
		"output_dir": filepath.Join(blocker, "dumps"),
	})
	if mcpErr != nil {
		t.Fatalf("Unexpected error: %v", mcpErr)
	}
	if result["errors"] == nil || result["errors"] == "" {
		t.Error("expected errors in result")
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 100, image.Rect(10, 10, 20, 20), markerYellow)
	outDir := t.TempDir()

	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"image_load", map[string]interface{}{"path": imgPath}},
		{"image_sample_color", map[string]interface{}{"path": imgPath, "x": 50, "y": 50}},
		{"marker_color_ranges", map[string]interface{}{}},
		{"marker_detect", map[string]interface{}{"path": imgPath}},
		{"marker_dump", map[string]interface{}{"path": imgPath, "output_dir": outDir}},
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(nil)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(nil)

	for _, name := range []string{"image_load", "image_sample_color", "marker_detect", "marker_dump"} {
		if _, err := s.executeTool(name, json.RawMessage(`{invalid`)); err == nil {
			t.Errorf("executeTool(%s) should fail for invalid JSON", name)
		}
	}
}
