package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"mandelbrot_evaluate",
		"mandelbrot_sample",
		"mandelbrot_view_bounds",
		"mandelbrot_regions",
		"mandelbrot_render",
		"mandelbrot_color",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("got %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want object", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties missing")
			}

			required, _ := tool.InputSchema["required"].([]string)
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required property %s is not defined", r)
				}
			}
		})
	}
}

func TestToolDefinitions_RenderSchema(t *testing.T) {
	var render Tool
	for _, tool := range GetToolDefinitions() {
		if tool.Name == "mandelbrot_render" {
			render = tool
		}
	}

	props := render.InputSchema["properties"].(map[string]interface{})
	for _, name := range []string{
		"width", "height", "max_iter", "center_x", "center_y", "zoom", "region",
		"x_min", "x_max", "y_min", "y_max", "palette", "interior_color",
		"scale", "axes", "axes_color", "output_path",
	} {
		if _, ok := props[name]; !ok {
			t.Errorf("mandelbrot_render is missing property %s", name)
		}
	}

	regions := props["region"].(map[string]interface{})["enum"].([]string)
	if len(regions) != len(regionNames()) || regions[0] == "" {
		t.Errorf("region enum: got %v", regions)
	}
}

func TestToolDefinitions_IntegerMinimums(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		props := tool.InputSchema["properties"].(map[string]interface{})
		for _, name := range []string{"width", "height", "max_iter"} {
			prop, ok := props[name].(map[string]interface{})
			if !ok {
				continue
			}
			if prop["minimum"] != 1 {
				t.Errorf("%s.%s minimum: got %v, want 1", tool.Name, name, prop["minimum"])
			}
		}
	}
}
