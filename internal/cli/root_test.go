package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a config that keeps the history in a temp dir and
// returns the config path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf("[history]\ndir = %q\n", filepath.Join(dir, "drawings"))
	path := filepath.Join(dir, "sketchdraw.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTestImage writes a PNG with a dark disc on white and returns its path.
func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	cx, cy, r := width/2, height/2, min(width, height)/3
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				c = color.RGBA{30, 30, 30, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envLogLevel, "")

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodePNGConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	return cfg
}

func TestSetVersion(t *testing.T) {
	oldV, oldC, oldD := version, commit, date
	t.Cleanup(func() { SetVersion(oldV, oldC, oldD) })

	SetVersion("1.0.0", "abc123", "2024-01-01")
	out, err := run(t, "", "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	for _, want := range []string{"sketchdraw 1.0.0", "commit: abc123", "built: 2024-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output %q should contain %q", out, want)
		}
	}
}

func TestDraw_Output(t *testing.T) {
	cfgPath := writeTestConfig(t)
	input := writeTestImage(t, 200, 100)
	output := filepath.Join(t.TempDir(), "art.png")

	out, err := run(t, "", "draw", input, "-o", output, "--color", "#336699", "--config", cfgPath)
	if err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	if !strings.Contains(out, "Drew photo.png") || !strings.Contains(out, "polylines") {
		t.Errorf("unexpected output: %q", out)
	}

	cfg := decodePNGConfig(t, output)
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("drawing size: got %dx%d, want canvas size", cfg.Width, cfg.Height)
	}
}

func TestDraw_DefaultOutput(t *testing.T) {
	input := writeTestImage(t, 60, 60)

	if _, err := run(t, "", "draw", input, "--sketch", "--config", writeTestConfig(t)); err != nil {
		t.Fatalf("draw failed: %v", err)
	}
	decodePNGConfig(t, filepath.Join(filepath.Dir(input), "photo_lineart.png"))
}

func TestDraw_Errors(t *testing.T) {
	cfgPath := writeTestConfig(t)
	input := writeTestImage(t, 20, 20)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing image", []string{"draw", "/nonexistent/photo.png"}, "Could not load image"},
		{"bad color", []string{"draw", input, "--color", "blue"}, "Not a valid color"},
		{"no args", []string{"draw"}, "accepts 1 arg"},
		{"output and save", []string{"draw", input, "-o", "x.png", "--save"}, "none of the others"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", append(tt.args, "--config", cfgPath)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSketch(t *testing.T) {
	input := writeTestImage(t, 120, 90)
	output := filepath.Join(t.TempDir(), "sketch.png")

	out, err := run(t, "", "sketch", input, "-o", output, "--config", writeTestConfig(t))
	if err != nil {
		t.Fatalf("sketch failed: %v", err)
	}
	if !strings.Contains(out, "Sketched photo.png (120x90)") {
		t.Errorf("unexpected output: %q", out)
	}

	cfg := decodePNGConfig(t, output)
	if cfg.Width != 120 || cfg.Height != 90 || cfg.ColorModel != color.GrayModel {
		t.Errorf("unexpected sketch: %dx%d %v", cfg.Width, cfg.Height, cfg.ColorModel)
	}
}

func TestHistoryCommands(t *testing.T) {
	cfgPath := writeTestConfig(t)
	input := writeTestImage(t, 80, 80)

	out, err := run(t, "", "history", "list", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No saved drawings") {
		t.Errorf("empty history output: %q", out)
	}

	out, err = run(t, "", "draw", input, "--save", "--title", "Circle", "--config", cfgPath)
	if err != nil {
		t.Fatalf("draw --save failed: %v", err)
	}
	if !strings.Contains(out, `Saved "Circle"`) {
		t.Errorf("unexpected save output: %q", out)
	}

	out, err = run(t, "", "history", "list", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Drawings (1 of 1)") || !strings.Contains(out, "Circle") {
		t.Errorf("unexpected list output: %q", out)
	}

	if _, err := run(t, "", "draw", input, "--save", "--title", "Square", "--config", cfgPath); err != nil {
		t.Fatalf("second draw --save failed: %v", err)
	}
	out, err = run(t, "", "history", "list", "-n", "1", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Drawings (1 of 2)") || strings.Contains(out, "Circle") {
		t.Errorf("limited list output: %q", out)
	}
	out, err = run(t, "", "history", "list", "--all", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Drawings (2 of 2)") || !strings.Contains(out, "Circle") || !strings.Contains(out, "Square") {
		t.Errorf("--all list output: %q", out)
	}

	_, err = run(t, "", "history", "delete", "3", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "File not found!") {
		t.Errorf("out of range delete: got %v", err)
	}
	_, err = run(t, "", "history", "delete", "first", "--config", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "invalid index") {
		t.Errorf("non-numeric delete: got %v", err)
	}

	out, err = run(t, "", "history", "delete", "0", "--config", cfgPath)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, `Deleted "Circle"`) {
		t.Errorf("unexpected delete output: %q", out)
	}

	out, _ = run(t, "", "history", "list", "--config", cfgPath)
	if strings.Contains(out, "Circle") || !strings.Contains(out, "Drawings (1 of 1)") || !strings.Contains(out, "Square") {
		t.Errorf("only Square should remain: %q", out)
	}
}

func TestServe(t *testing.T) {
	stdin := `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"canvas_state"}}` + "\n"

	out, err := run(t, stdin, "serve", "--config", writeTestConfig(t))
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], `"id":1`) || !strings.Contains(lines[1], `\"width\": 800`) {
		t.Errorf("unexpected responses: %q", out)
	}
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[canvas]\nwidth = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "", "history", "list", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "canvas size must be positive") {
		t.Errorf("got %v", err)
	}
}

func TestDerivedPath(t *testing.T) {
	tests := []struct {
		input, suffix, want string
	}{
		{"cat.jpg", "lineart", "cat_lineart.png"},
		{"/tmp/a.b/cat.png", "sketch", "/tmp/a.b/cat_sketch.png"},
		{"noext", "lineart", "noext_lineart.png"},
	}
	for _, tt := range tests {
		if got := derivedPath(tt.input, tt.suffix); got != tt.want {
			t.Errorf("derivedPath(%q, %q) = %q, want %q", tt.input, tt.suffix, got, tt.want)
		}
	}
}
