package recommend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chlehdwls94/agent-test/src/catalog"
)

func TestSplitGSURI(t *testing.T) {
	tests := []struct {
		uri          string
		bucket, name string
		ok           bool
	}{
		{"gs://room-uploads/uploads/room.png", "room-uploads", "uploads/room.png", true},
		{"gs://bucket/obj", "bucket", "obj", true},
		{"gs://bucket", "", "", false},
		{"gs:///obj", "", "", false},
		{"/tmp/room.png", "", "", false},
		{"https://example.com/room.png", "", "", false},
	}
	for _, tt := range tests {
		bucket, name, ok := splitGSURI(tt.uri)
		if bucket != tt.bucket || name != tt.name || ok != tt.ok {
			t.Errorf("splitGSURI(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.uri, bucket, name, ok, tt.bucket, tt.name, tt.ok)
		}
	}
}

func TestDetectImageMIME(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"room.png", "image/png"},
		{"room.JPG", "image/jpeg"},
		{"room.jpeg", "image/jpeg"},
		{"room.gif", "image/gif"},
		{"room.webp", "image/webp"},
	}
	for _, tt := range tests {
		if got := detectImageMIME(tt.path, nil); got != tt.want {
			t.Errorf("detectImageMIME(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	// Unknown extension falls back to content sniffing.
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if got := detectImageMIME("room.bin", pngHeader); got != "image/png" {
		t.Errorf("sniffed mime = %q, want image/png", got)
	}
}

func TestReadImageLocalFile(t *testing.T) {
	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	path := filepath.Join(t.TempDir(), "room.png")
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// Local paths never touch Cloud Storage, so a bare toolset suffices.
	ts := &Toolset{}
	data, mimeType, err := ts.readImage(context.Background(), path)
	if err != nil {
		t.Fatalf("readImage: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Errorf("data = %q, want file contents", data)
	}
	if mimeType != "image/png" {
		t.Errorf("mime = %q, want image/png", mimeType)
	}

	if _, _, err := ts.readImage(context.Background(), "  "); err == nil {
		t.Error("want error for empty path")
	}
}

func TestTemplateExplanation(t *testing.T) {
	products := []catalog.Product{
		{
			ProductID:   "tv-lg-c3-55",
			Brand:       "LG",
			ProductName: "LG C3 OLED",
			PriceUSD:    `{"55":1300,"65":1700}`,
			Summary:     "Deep blacks for dark rooms.",
		},
		{
			ProductID:   "tv-samsung-qn90c-55",
			Brand:       "Samsung",
			ProductName: "Samsung QN90C QLED",
		},
	}

	got := templateExplanation(products)
	for _, want := range []string{"LG C3 OLED", "Samsung QN90C QLED", "$1300", "Deep blacks"} {
		if !strings.Contains(got, want) {
			t.Errorf("explanation missing %q:\n%s", want, got)
		}
	}
}
