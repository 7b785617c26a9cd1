package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/scribble/internal/config"
	"github.com/example/scribble/internal/notify"
	"github.com/example/scribble/internal/preset"
	"github.com/example/scribble/internal/theme"
)

func testRoot(t *testing.T) *root {
	t.Helper()
	cfg := config.New()
	cfg.Canvas.Width, cfg.Canvas.Height = 64, 48
	r := &root{
		program:      "scribble",
		notifier:     notify.New(notify.DefaultPreferences()),
		config:       cfg,
		configPath:   filepath.Join(t.TempDir(), "config.rc"),
		historyLimit: cfg.HistoryLimit,
		presets:      &preset.Loader{},
		themes:       &theme.Loader{},
		activeTheme:  theme.Default(),
	}
	return r
}

func TestPickPrecedence(t *testing.T) {
	t.Setenv("SCRIBBLE_THEME", "dark")
	if got := pick("light", "SCRIBBLE_THEME", "solar"); got != "light" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := pick("", "SCRIBBLE_THEME", "solar"); got != "dark" {
		t.Fatalf("env should beat config, got %q", got)
	}
	t.Setenv("SCRIBBLE_THEME", " ")
	if got := pick("", "SCRIBBLE_THEME", "solar"); got != "solar" {
		t.Fatalf("config should be the fallback, got %q", got)
	}
}

func TestCanvasFlagsConflict(t *testing.T) {
	r := testRoot(t)
	_, err := parseReplayCmd([]string{"-open", "a.png", "-paste"}, r)
	if err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("expected conflict error, got %v", err)
	}
	_, err = parseInteractiveCmd([]string{"-size", "0x10"}, r)
	if err == nil {
		t.Fatal("expected invalid size error")
	}
}

func TestReplayWatchNeedsFile(t *testing.T) {
	_, err := parseReplayCmd([]string{"-watch"}, testRoot(t))
	if err == nil || !strings.Contains(err.Error(), "needs a script file") {
		t.Fatalf("expected watch error, got %v", err)
	}
}

func TestReplayScriptExports(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.png")
	src := filepath.Join(dir, "draw.scribble")
	body := "# a diagonal\ntool line\nset color #ff0000\nline 0 0 39 29\nexport\n"
	if err := os.WriteFile(src, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := parseReplayCmd([]string{"-size", "40x30", "-o", out, src}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout bytes.Buffer
	cmd.stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "saved ") {
		t.Fatalf("expected save message, got %q", stdout.String())
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(40, 30) {
		t.Fatalf("size %v", img.Bounds().Size())
	}
}

func TestReplayScriptErrorNamesLine(t *testing.T) {
	cmd, err := parseReplayCmd([]string{"-q", "-"}, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	cmd.stdin = strings.NewReader("tool brush\nset size -3\n")
	err = cmd.Run()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number, got %v", err)
	}
}

func TestInteractiveImmediateMode(t *testing.T) {
	cmd, err := parseInteractiveCmd([]string{
		"-e", "tool brush",
		"-e", "down 5 5",
		"-e", "move 20 20",
		"-e", "up",
		"-e", "status",
	}, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	cmd.stdout = &stdout
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := stdout.String()
	if !strings.Contains(got, "64x48 idle tool=brush") || !strings.Contains(got, "undo=1 redo=0") {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestInteractivePromptKeepsGoingAfterErrors(t *testing.T) {
	cmd, err := parseInteractiveCmd(nil, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	cmd.stdin = strings.NewReader("bogus\nline 0 0 10 10\nundo\nredo\nstatus\nexit\nstatus\n")
	cmd.stdout = &stdout
	cmd.stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Fatalf("expected error for bogus, got %q", stderr.String())
	}
	if n := strings.Count(stdout.String(), "undo=1 redo=0"); n != 1 {
		t.Fatalf("expected one status line after exit, got %d in %q", n, stdout.String())
	}
}

func TestOpenSessionFromClipboard(t *testing.T) {
	original := readClipboardImage
	t.Cleanup(func() { readClipboardImage = original })

	readClipboardImage = func() (image.Image, error) {
		return image.NewRGBA(image.Rect(10, 10, 15, 14)), nil
	}
	r := testRoot(t)
	sess, err := r.openSession(canvasFlags{paste: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := sess.Size(); got != image.Pt(5, 4) {
		t.Fatalf("size %v", got)
	}

	sentinel := errors.New("empty")
	readClipboardImage = func() (image.Image, error) { return nil, sentinel }
	if _, err := r.openSession(canvasFlags{paste: true}); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped clipboard error, got %v", err)
	}
}

func TestOpenSessionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.png")
	src := image.NewRGBA(image.Rect(0, 0, 7, 3))
	src.Set(1, 1, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	sess, err := testRoot(t).openSession(canvasFlags{open: path})
	if err != nil {
		t.Fatal(err)
	}
	img, err := sess.Image()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(7, 3) || img.RGBAAt(1, 1) != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("unexpected image %v %v", img.Bounds(), img.RGBAAt(1, 1))
	}
	if _, err := testRoot(t).openSession(canvasFlags{open: filepath.Join(t.TempDir(), "missing.png")}); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestOpenSessionUnknownPreset(t *testing.T) {
	r := testRoot(t)
	r.presetName = "does-not-exist"
	_, err := r.openSession(canvasFlags{})
	if err == nil || !strings.Contains(err.Error(), "does-not-exist") {
		t.Fatalf("expected preset error, got %v", err)
	}
}

func TestUsageTemplatesRender(t *testing.T) {
	r := testRoot(t)
	r.fs = newRoot().fs
	window, _ := parseWindowCmd(nil, r)
	replay, _ := parseReplayCmd(nil, r)
	interactive, _ := parseInteractiveCmd(nil, r)
	serve, _ := parseServeCmd(nil, r)
	browse, _ := parseBrowseCmd(nil, r)
	list, _ := parseListCmd("themes", nil, r)
	cfg, _ := parseConfigCmd(nil, r)
	for _, h := range []HelpData{r, window, replay, interactive, serve, browse, list, cfg, &versionCmd{r: r}} {
		text := (&UsageError{of: h}).Error()
		if !strings.HasPrefix(text, "Usage: scribble") {
			t.Errorf("%s: unexpected help %q", h.Template(), text)
		}
	}
	if text := (&UsageError{of: replay}).Error(); !strings.Contains(text, "export [PATH]") || !strings.Contains(text, "-watch") {
		t.Fatalf("replay help missing commands or flags: %q", text)
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	r := testRoot(t)
	r.fs = newRoot().fs
	err := r.Run([]string{"paint-by-numbers"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestListTools(t *testing.T) {
	cmd, err := parseListCmd("tools", []string{"-v"}, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cmd.stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"brush", "eraser", "polygon", "canvasSize", "tiff", "pdf"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}
}

func TestConfigSaveWritesRC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.rc")
	cmd, err := parseConfigCmd([]string{"-path", path, "save"}, testRoot(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := config.Parse(f)
	if err != nil {
		t.Fatalf("saved config does not parse: %v", err)
	}
	if cfg.Canvas.Width != 64 || cfg.Canvas.Height != 48 {
		t.Fatalf("canvas %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
}

func TestServeStopsWhenContextEnds(t *testing.T) {
	r := testRoot(t)
	cmd, err := parseServeCmd([]string{"-addr", "127.0.0.1:0", "-size", "32x32"}, r)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.serve(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
