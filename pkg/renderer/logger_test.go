package renderer

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDefaultLogger_WritesToStream(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(&buf)

	logger.Printf("Scanlines remaining: %d", 3)
	if buf.String() != "Scanlines remaining: 3" {
		t.Errorf("Unexpected log output %q", buf.String())
	}
}

func TestRaytracer_Render_LogsProgress(t *testing.T) {
	var buf bytes.Buffer
	camera := mustCamera(t, CameraConfig{AspectRatio: 2, Width: 8})
	rt, err := NewRaytracer(camera, emptyWorld(), SamplingConfig{SamplesPerPixel: 1, MaxDepth: 1, NumWorkers: 1}, NewDefaultLogger(&buf))
	if err != nil {
		t.Fatalf("NewRaytracer: %v", err)
	}

	stats, err := rt.Render(context.Background(), &memoryImage{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	log := buf.String()
	for _, want := range []string{
		"Render " + stats.RenderID + ": 8x4",
		"Scanlines remaining: 3 ",
		"Scanlines remaining: 0 ",
		"Done.",
		"Render " + stats.RenderID + " completed",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("Expected log to contain %q, got %q", want, log)
		}
	}
}
