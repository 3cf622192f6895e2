package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/mandelbrot-mcp/internal/config"
	"github.com/ironsheep/mandelbrot-mcp/internal/fractal"
	"github.com/ironsheep/mandelbrot-mcp/internal/imaging"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// callTool invokes a tool on s through an in-memory SDK session
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	t.Helper()
	if args == nil {
		args = map[string]interface{}{}
	}
	session := connectInMemory(t, s)
	return session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
}

func toolErrorText(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(*mcp.TextContent); ok {
		return text.Text
	}
	return ""
}

// mustCallTool calls a tool and decodes its structured result into v
func mustCallTool(t *testing.T, s *Server, name string, args map[string]interface{}, v interface{}) {
	t.Helper()

	res, err := callTool(t, s, name, args)
	if err != nil {
		t.Fatalf("CallTool(%s) failed: %v", name, err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", toolErrorText(res))
	}
	raw, err := json.Marshal(res.StructuredContent)
	if err != nil {
		t.Fatalf("failed to encode structured content: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("failed to decode tool result: %v\n%s", err, raw)
	}
}

// wantInvalidParams expects the call to fail with a JSON-RPC -32602 error
func wantInvalidParams(t *testing.T, s *Server, name string, args map[string]interface{}) {
	t.Helper()

	res, err := callTool(t, s, name, args)
	var rpcErr *jsonrpc.Error
	if !errors.As(err, &rpcErr) {
		if res != nil {
			t.Fatalf("got result (isError=%v, %s), want invalid params", res.IsError, toolErrorText(res))
		}
		t.Fatalf("got error %v (%T), want jsonrpc.Error", err, err)
	}
	if rpcErr.Code != jsonrpc.CodeInvalidParams {
		t.Errorf("error code: got %d, want %d (%s)", rpcErr.Code, jsonrpc.CodeInvalidParams, rpcErr.Message)
	}
}

// wantToolError expects the call to succeed at the protocol level with isError set
func wantToolError(t *testing.T, s *Server, name string, args map[string]interface{}) {
	t.Helper()

	res, err := callTool(t, s, name, args)
	if err != nil {
		t.Fatalf("CallTool(%s) failed: %v", name, err)
	}
	if !res.IsError {
		t.Errorf("expected a tool error, got %v", res.StructuredContent)
	}
}

func TestHandleToolsCall_Evaluate(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name         string
		args         map[string]interface{}
		wantValue    float64
		wantInterior bool
		wantMaxIter  int
	}{
		{"interior point with default max_iter", map[string]interface{}{"real": -0.5, "imag": 0}, 100, true, 100},
		{"origin", map[string]interface{}{"real": 0, "imag": 0, "max_iter": 25}, 25, true, 25},
		{"fast escape", map[string]interface{}{"real": 3, "imag": 0, "max_iter": 10}, 2 - math.Log(math.Log2(3)), false, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got EvaluateResult
			mustCallTool(t, s, "mandelbrot_evaluate", tt.args, &got)

			if math.Abs(got.Value-tt.wantValue) > 1e-12 {
				t.Errorf("Value: got %v, want %v", got.Value, tt.wantValue)
			}
			if got.Interior != tt.wantInterior {
				t.Errorf("Interior: got %v, want %v", got.Interior, tt.wantInterior)
			}
			if got.MaxIter != tt.wantMaxIter {
				t.Errorf("MaxIter: got %d, want %d", got.MaxIter, tt.wantMaxIter)
			}
		})
	}
}

func TestHandleToolsCall_EvaluateErrors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxIter = 50
	s := New(cfg, "test")

	tests := []struct {
		name      string
		args      map[string]interface{}
		toolError bool
	}{
		{"zero max_iter", map[string]interface{}{"real": 0, "imag": 0, "max_iter": 0}, false},
		{"negative max_iter", map[string]interface{}{"real": 0, "imag": 0, "max_iter": -1}, false},
		{"max_iter over limit", map[string]interface{}{"real": 0, "imag": 0, "max_iter": 51}, false},
		{"wrong argument type", map[string]interface{}{"real": "zero", "imag": 0}, false},
		{"overflowing orbit", map[string]interface{}{"real": math.MaxFloat64, "imag": math.MaxFloat64}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.toolError {
				wantToolError(t, s, "mandelbrot_evaluate", tt.args)
			} else {
				wantInvalidParams(t, s, "mandelbrot_evaluate", tt.args)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer()
	if _, err := s.executeTool("image_load", nil); !errors.Is(err, fractal.ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestExecuteTool_ExplicitZeroIsRejected(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		tool string
		args string
	}{
		{"mandelbrot_evaluate", `{"real":0,"imag":0,"max_iter":0}`},
		{"mandelbrot_sample", `{"width":0}`},
		{"mandelbrot_sample", `{"height":0}`},
		{"mandelbrot_sample", `{"width":4,"height":4,"max_iter":0}`},
		{"mandelbrot_render", `{"width":0,"height":4}`},
		{"mandelbrot_render", `{"width":4,"height":4,"max_iter":0}`},
		{"mandelbrot_render", `{"width":4,"height":4,"center_x":0,"center_y":0,"zoom":0}`},
		{"mandelbrot_color", `{"value":1,"max_iter":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.args, func(t *testing.T) {
			if _, err := s.executeTool(tt.tool, json.RawMessage(tt.args)); !errors.Is(err, fractal.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestHandleToolsCall_Sample(t *testing.T) {
	s := newTestServer()

	var got SampleResult
	mustCallTool(t, s, "mandelbrot_sample", map[string]interface{}{
		"width": 3, "height": 1, "max_iter": 50,
		"x_min": -1, "x_max": 0, "y_min": 0, "y_max": 1,
	}, &got)

	if got.Grid == nil {
		t.Fatal("grid missing from result")
	}
	if got.Width != 3 || got.Height != 1 {
		t.Errorf("size: got %dx%d, want 3x1", got.Width, got.Height)
	}
	wantXS := []float64{-1, -0.5, 0}
	for i, x := range wantXS {
		if got.XS[i] != x {
			t.Errorf("XS[%d]: got %v, want %v", i, got.XS[i], x)
		}
		if got.Values[i][0] != 50 {
			t.Errorf("Values[%d][0]: got %v, want 50", i, got.Values[i][0])
		}
	}
	if len(got.YS) != 1 || got.YS[0] != 0 {
		t.Errorf("YS: got %v, want [0]", got.YS)
	}
	if got.ComputationSeconds < 0 {
		t.Errorf("ComputationSeconds: got %v", got.ComputationSeconds)
	}
}

func TestHandleToolsCall_SampleDefaultView(t *testing.T) {
	s := newTestServer()

	var got SampleResult
	mustCallTool(t, s, "mandelbrot_sample", map[string]interface{}{
		"width": 4, "height": 2, "max_iter": 20,
	}, &got)

	want := fractal.Bounds{XMin: -2, XMax: 1, YMin: -1.5, YMax: 1.5}
	if got.Bounds != want {
		t.Errorf("Bounds: got %+v, want %+v", got.Bounds, want)
	}
	if len(got.Values) != 4 || len(got.Values[0]) != 2 {
		t.Errorf("Values shape: got %dx%d, want 4x2", len(got.Values), len(got.Values[0]))
	}
}

func TestHandleToolsCall_SampleErrors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPixels = 100
	s := New(cfg, "test")

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"partial bounds", map[string]interface{}{"width": 2, "height": 2, "x_min": -1, "x_max": 1}},
		{"inverted bounds", map[string]interface{}{"width": 2, "height": 2, "x_min": 1, "x_max": -1, "y_min": 0, "y_max": 1}},
		{"negative width", map[string]interface{}{"width": -2, "height": 2}},
		{"zero width", map[string]interface{}{"width": 0, "height": 2}},
		{"over pixel budget", map[string]interface{}{"width": 20, "height": 10}},
		{"default size over budget", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantInvalidParams(t, s, "mandelbrot_sample", tt.args)
		})
	}
}

func TestHandleToolsCall_ViewBounds(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		args map[string]interface{}
		want fractal.Bounds
	}{
		{"defaults", nil, fractal.Bounds{XMin: -2, XMax: 1, YMin: -1.5, YMax: 1.5}},
		{"zoom 2 at origin", map[string]interface{}{"center_x": 0, "center_y": 0, "zoom": 2}, fractal.Bounds{XMin: -0.75, XMax: 0.75, YMin: -0.75, YMax: 0.75}},
		{"center only", map[string]interface{}{"center_x": 1, "center_y": 1}, fractal.Bounds{XMin: -0.5, XMax: 2.5, YMin: -0.5, YMax: 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ViewBoundsResult
			mustCallTool(t, s, "mandelbrot_view_bounds", tt.args, &got)
			if got.Bounds != tt.want {
				t.Errorf("Bounds: got %+v, want %+v", got.Bounds, tt.want)
			}
		})
	}

	wantInvalidParams(t, s, "mandelbrot_view_bounds", map[string]interface{}{"zoom": 0})
	wantInvalidParams(t, s, "mandelbrot_view_bounds", map[string]interface{}{"zoom": -3})
}

func TestHandleToolsCall_Regions(t *testing.T) {
	s := newTestServer()

	var got RegionsResult
	mustCallTool(t, s, "mandelbrot_regions", nil, &got)

	if len(got.Regions) != len(fractal.Landmarks()) {
		t.Fatalf("got %d regions, want %d", len(got.Regions), len(fractal.Landmarks()))
	}
	found := false
	for _, r := range got.Regions {
		if r.Name == "seahorse-valley" {
			found = true
		}
	}
	if !found {
		t.Error("seahorse-valley not listed")
	}
}

func decodePNG(t *testing.T, res *imaging.RenderResult) (int, int) {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png decode failed: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestHandleToolsCall_Render(t *testing.T) {
	s := newTestServer()

	var got imaging.RenderResult
	mustCallTool(t, s, "mandelbrot_render", map[string]interface{}{
		"width": 30, "height": 20, "max_iter": 40,
	}, &got)

	if got.Width != 30 || got.Height != 20 {
		t.Errorf("size: got %dx%d, want 30x20", got.Width, got.Height)
	}
	if w, h := decodePNG(t, &got); w != 30 || h != 20 {
		t.Errorf("decoded size: got %dx%d, want 30x20", w, h)
	}
	if got.Palette != imaging.DefaultPalette {
		t.Errorf("Palette: got %s, want %s", got.Palette, imaging.DefaultPalette)
	}
	if got.MaxIter != 40 {
		t.Errorf("MaxIter: got %d, want 40", got.MaxIter)
	}
	if got.InteriorPixels == 0 {
		t.Error("default view should contain interior pixels")
	}
	want := fractal.Bounds{XMin: -2, XMax: 1, YMin: -1.5, YMax: 1.5}
	if got.Bounds != want {
		t.Errorf("Bounds: got %+v, want %+v", got.Bounds, want)
	}
}

func TestHandleToolsCall_RenderRegionSelection(t *testing.T) {
	s := newTestServer()
	seahorse, err := fractal.Landmark("seahorse-valley")
	if err != nil {
		t.Fatalf("Landmark failed: %v", err)
	}
	explicit := fractal.Bounds{XMin: -1, XMax: 0, YMin: 0, YMax: 1}

	tests := []struct {
		name string
		args map[string]interface{}
		want fractal.Bounds
	}{
		{"region", map[string]interface{}{"region": "seahorse-valley"}, seahorse.Bounds},
		{"view", map[string]interface{}{"center_x": 0, "center_y": 0, "zoom": 2}, fractal.Bounds{XMin: -0.75, XMax: 0.75, YMin: -0.75, YMax: 0.75}},
		{"explicit bounds win over region", map[string]interface{}{"region": "seahorse-valley", "x_min": -1, "x_max": 0, "y_min": 0, "y_max": 1}, explicit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["width"] = 8
			tt.args["height"] = 8
			tt.args["max_iter"] = 20

			var got imaging.RenderResult
			mustCallTool(t, s, "mandelbrot_render", tt.args, &got)
			if got.Bounds != tt.want {
				t.Errorf("Bounds: got %+v, want %+v", got.Bounds, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_RenderOptions(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.Palette = "magma"
	s := New(cfg, "test")

	var got imaging.RenderResult
	mustCallTool(t, s, "mandelbrot_render", map[string]interface{}{
		"width": 10, "height": 10, "max_iter": 30,
		"scale": 2, "axes": 2, "output_path": "view.png",
	}, &got)

	if got.Width != 20 || got.Height != 20 {
		t.Errorf("size: got %dx%d, want 20x20", got.Width, got.Height)
	}
	if got.Palette != "magma" {
		t.Errorf("Palette: got %s, want magma from config", got.Palette)
	}

	wantPath := filepath.Join(cfg.OutputDir, "view.png")
	if got.SavedPath != wantPath {
		t.Errorf("SavedPath: got %q, want %q", got.SavedPath, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestHandleToolsCall_RenderErrors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxPixels = 500
	s := New(cfg, "test")

	tests := []struct {
		name      string
		args      map[string]interface{}
		toolError bool
	}{
		{"unknown region", map[string]interface{}{"width": 10, "height": 10, "region": "atlantis"}, false},
		{"unknown palette", map[string]interface{}{"width": 10, "height": 10, "palette": "rainbow"}, false},
		{"bad interior colour", map[string]interface{}{"width": 10, "height": 10, "interior_color": "black"}, false},
		{"negative scale", map[string]interface{}{"width": 10, "height": 10, "scale": -1}, false},
		{"scaled output over budget", map[string]interface{}{"width": 20, "height": 10, "scale": 2}, false},
		{"scale past int range", map[string]interface{}{"width": 10, "height": 10, "scale": 1e17}, false},
		{"zero width", map[string]interface{}{"width": 0, "height": 10}, false},
		{"zero max_iter", map[string]interface{}{"width": 10, "height": 10, "max_iter": 0}, false},
		{"zero zoom", map[string]interface{}{"width": 10, "height": 10, "zoom": 0}, false},
		{"explicit zero view", map[string]interface{}{"width": 10, "height": 10, "center_x": 0, "center_y": 0, "zoom": 0}, false},
		{"unwritable output", map[string]interface{}{"width": 10, "height": 10, "output_path": filepath.Join(t.TempDir(), "missing", "x.png")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.toolError {
				wantToolError(t, s, "mandelbrot_render", tt.args)
			} else {
				wantInvalidParams(t, s, "mandelbrot_render", tt.args)
			}
		})
	}
}

func TestHandleToolsCall_Color(t *testing.T) {
	s := newTestServer()

	var interior imaging.ColorResult
	mustCallTool(t, s, "mandelbrot_color", map[string]interface{}{
		"value": 100,
	}, &interior)
	if !interior.Interior || interior.Hex != "#000000" {
		t.Errorf("interior: got %+v, want black interior", interior)
	}

	var first imaging.ColorResult
	mustCallTool(t, s, "mandelbrot_color", map[string]interface{}{
		"value": 0.3, "max_iter": 10, "palette": "viridis", "interior_color": "#FFFFFF",
	}, &first)
	if first.Interior || first.Index != 0 || first.Hex != "#440154" {
		t.Errorf("first entry: got %+v", first)
	}

	wantInvalidParams(t, s, "mandelbrot_color", map[string]interface{}{"value": 1, "palette": "rainbow"})
	wantInvalidParams(t, s, "mandelbrot_color", map[string]interface{}{"value": 1, "max_iter": -4})
}

func TestRender_Request(t *testing.T) {
	s := newTestServer()

	res, err := s.Render(RenderRequest{Width: 12, Height: 6, MaxIter: 30})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if res.MaxIter != 30 {
		t.Errorf("MaxIter: got %d, want 30", res.MaxIter)
	}
	want, _ := fractal.ViewBounds(fractal.DefaultView)
	if res.Bounds != want {
		t.Errorf("nil View: got bounds %+v, want %+v", res.Bounds, want)
	}
	if res.Palette != config.Default().Palette {
		t.Errorf("Palette: got %s, want the configured default", res.Palette)
	}
	if res.ComputationSeconds < 0 {
		t.Errorf("ComputationSeconds: got %v", res.ComputationSeconds)
	}
}

func TestRender_InvalidRequest(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		req  RenderRequest
	}{
		{"zero request", RenderRequest{}},
		{"zero width", RenderRequest{Width: 0, Height: 6, MaxIter: 10}},
		{"zero max_iter", RenderRequest{Width: 6, Height: 6}},
		{"zero view", RenderRequest{Width: 6, Height: 6, MaxIter: 10, View: &fractal.View{}}},
		{"scale wraps int", RenderRequest{Width: 600, Height: 600, MaxIter: 10, Options: imaging.RenderOptions{Scale: 1e17}}},
		{"NaN scale", RenderRequest{Width: 6, Height: 6, MaxIter: 10, Options: imaging.RenderOptions{Scale: math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Render(tt.req)
			if !errors.Is(err, fractal.ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
			if res != nil {
				t.Errorf("got a %dx%d result, want none", res.Width, res.Height)
			}
		})
	}
}
