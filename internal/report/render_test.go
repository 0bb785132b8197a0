package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/scottbass3/imgprobe/internal/probe"
)

func sampleRows() []Row {
	rec := sized("https://cdn.example.com/hero.png", 2048)
	rec.Dims = &probe.Dimensions{Width: 10, Height: 10}
	return Aggregate([]probe.Record{rec, unsized("img/missing.png")}, func(string) int { return 2 })
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(decoded))
	}
	if decoded[0]["size"] != float64(2048) || decoded[0]["width"] != float64(10) || decoded[0]["type"] != "remote" {
		t.Fatalf("unexpected first row: %v", decoded[0])
	}
	for _, key := range []string{"size", "width", "height"} {
		value, ok := decoded[1][key]
		if !ok || value != nil {
			t.Fatalf("expected %s to be null, got %v", key, value)
		}
	}
	if _, ok := decoded[0]["ID"]; ok {
		t.Fatalf("internal id leaked into json: %v", decoded[0])
	}

	buf.Reset()
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestRenderPlain(t *testing.T) {
	got := RenderPlain(sampleRows())
	want := "target\ttype\tsize\twidth\theight\toccurrences\tstatus\n" +
		"https://cdn.example.com/hero.png\tremote\t2048\t10\t10\t2\tOK(HEAD)\n" +
		"img/missing.png\tlocal\t\t\t\t2\tfile not found\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleRows())
	for _, want := range []string{"Target", "hero.png", "10x10", "2.0 KB", "file not found", "2 targets (1 remote, 1 local)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected table to contain %q:\n%s", want, out)
		}
	}
	header, first, second := strings.Index(out, "Target"), strings.Index(out, "hero.png"), strings.Index(out, "img/missing.png")
	if !(header < first && first < second) {
		t.Fatalf("expected header then rows in size order:\n%s", out)
	}
	if !strings.Contains(RenderTable(nil), "No image references found") {
		t.Fatalf("expected empty report message")
	}
}

func TestCopyToClipboard(t *testing.T) {
	original := writeClipboard
	defer func() { writeClipboard = original }()

	var copied string
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	if err := CopyToClipboard(sampleRows()); err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if !strings.HasPrefix(copied, "target\ttype") {
		t.Fatalf("unexpected clipboard contents %q", copied)
	}

	writeClipboard = func(string) error { return errors.New("no clipboard") }
	if err := CopyToClipboard(sampleRows()); err == nil {
		t.Fatalf("expected clipboard error")
	}
}

func TestFormatSize(t *testing.T) {
	small := int64(512)
	if got := formatSize(&small); got != "512 B" {
		t.Fatalf("expected 512 B, got %q", got)
	}
	if got := formatSize(nil); got != "-" {
		t.Fatalf("expected -, got %q", got)
	}
}
