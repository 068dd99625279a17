package classify

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

// writePNG writes a small solid-color PNG to path, creating parent dirs.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan_ClassifiesByContentNotExtension(t *testing.T) {
	root := t.TempDir()

	writePNG(t, filepath.Join(root, "a.png"), 8, 8)
	writeJPEG(t, filepath.Join(root, "b.jpg"), 8, 8)
	writePNG(t, filepath.Join(root, "disguised.txt"), 8, 8) // image with wrong extension
	writeText(t, filepath.Join(root, "fake.png"), "not an image at all")
	writeText(t, filepath.Join(root, "notes.txt"), "plain text")
	writePNG(t, filepath.Join(root, "sub", "deep", "c.png"), 8, 8)

	items, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(items) != 4 {
		var got []string
		for _, it := range items {
			got = append(got, it.Rel)
		}
		t.Fatalf("Scan() yielded %d items %v, want 4", len(items), got)
	}

	byRel := make(map[string]Item, len(items))
	for _, it := range items {
		byRel[it.Rel] = it
	}
	if _, ok := byRel["disguised.txt"]; !ok {
		t.Error("image with .txt extension was not classified as image")
	}
	if _, ok := byRel["fake.png"]; ok {
		t.Error("text file with .png extension was classified as image")
	}
	if it, ok := byRel[filepath.Join("sub", "deep", "c.png")]; !ok {
		t.Error("nested image was not discovered")
	} else if it.MIME != "image/png" {
		t.Errorf("nested image MIME = %q, want image/png", it.MIME)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("Scan() error = %v, want ErrInputNotFound", err)
	}
}

func TestSniff(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "a.png"), 8, 8)
	writeText(t, filepath.Join(root, "notes.txt"), "plain text")

	if mime, err := Sniff(filepath.Join(root, "a.png")); err != nil || mime != "image/png" {
		t.Errorf("Sniff(png) = %q, %v, want image/png", mime, err)
	}
	if mime, err := Sniff(filepath.Join(root, "notes.txt")); err != nil || mime != "text/plain" {
		t.Errorf("Sniff(text) = %q, %v, want text/plain (charset stripped)", mime, err)
	}
	if _, err := Sniff(filepath.Join(root, "missing")); err == nil {
		t.Error("Sniff(missing file) should fail")
	}
}

func TestItem_Base(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"simple", "/data/a.png", "a"},
		{"nested", "/data/sub/photo.jpeg", "photo"},
		{"no extension", "/data/raw", "raw"},
		{"dotted name", "/data/a.b.png", "a.b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{Path: tt.path}
			if got := it.Base(); got != tt.want {
				t.Errorf("Base() = %q, want %q", got, tt.want)
			}
		})
	}
}
