package probe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalProbeDecodesHeader(t *testing.T) {
	data := pngBytes(t, 4, 4)
	if len(data) > 512 {
		t.Fatalf("fixture too large: %d bytes", len(data))
	}
	data = append(data, bytes.Repeat([]byte{0}, 512-len(data))...)

	path := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec := NewLocal().Probe(context.Background(), path)

	if rec.SizeOrUnknown() != 512 {
		t.Fatalf("expected size 512, got %d", rec.SizeOrUnknown())
	}
	if rec.Dims == nil || rec.Dims.Width != 4 || rec.Dims.Height != 4 {
		t.Fatalf("expected 4x4, got %+v", rec.Dims)
	}
	if rec.StatusText() != "OK(file)" {
		t.Fatalf("expected status OK(file), got %q", rec.StatusText())
	}
}

func TestLocalProbeMissingFile(t *testing.T) {
	rec := NewLocal().Probe(context.Background(), filepath.Join(t.TempDir(), "missing.png"))

	if rec.Size != nil || rec.Dims != nil {
		t.Fatalf("expected unknown size and dimensions, got %v %+v", rec.Size, rec.Dims)
	}
	if rec.StatusText() != "file not found" {
		t.Fatalf("expected file not found, got %q", rec.StatusText())
	}
}

func TestLocalProbeDirectory(t *testing.T) {
	rec := NewLocal().Probe(context.Background(), t.TempDir())

	if rec.Size != nil {
		t.Fatalf("expected unknown size for directory, got %d", *rec.Size)
	}
	if rec.StatusText() != "Not a file" {
		t.Fatalf("expected Not a file, got %q", rec.StatusText())
	}
}

func TestLocalProbeUndecodableKeepsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("definitely not an image"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rec := NewLocal().Probe(context.Background(), path)

	if rec.SizeOrUnknown() != int64(len("definitely not an image")) {
		t.Fatalf("expected exact size, got %d", rec.SizeOrUnknown())
	}
	if rec.Dims != nil {
		t.Fatalf("expected unknown dimensions, got %+v", rec.Dims)
	}
	if len(rec.Status) != 1 || !strings.HasPrefix(rec.StatusText(), "decode failed: ") {
		t.Fatalf("expected a single decode failure, got %q", rec.StatusText())
	}
}

func TestLocalProbeHonoursCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.png")
	if err := os.WriteFile(path, pngBytes(t, 2, 2), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := NewLocal().Probe(ctx, path)

	if rec.Size != nil || rec.Dims != nil {
		t.Fatalf("expected nothing gathered, got %v %+v", rec.Size, rec.Dims)
	}
	if got := rec.StatusText(); got != "file failed: context canceled" {
		t.Fatalf("expected %q, got %q", "file failed: context canceled", got)
	}

	ctx, cancel = context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	if got := NewLocal().Probe(ctx, path).StatusText(); got != "file timeout" {
		t.Fatalf("expected %q, got %q", "file timeout", got)
	}
}
