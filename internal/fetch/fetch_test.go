package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
)

// pngPayload is a minimal valid 1x1 PNG.
var pngPayload = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func md5Hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func testConfig(t *testing.T, dest string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DestDir = dest
	cfg.ColorMode = config.ColorNever
	cfg.Progress = false
	return &cfg
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "manifest.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Entry
		wantErr bool
	}{
		{
			name:  "URLOnly",
			input: "https://example.com/a.png\n",
			want:  []Entry{{URL: "https://example.com/a.png"}},
		},
		{
			name:  "URLWithChecksum",
			input: "https://example.com/a.png ABCDEF0123456789\n",
			want:  []Entry{{URL: "https://example.com/a.png", MD5: "abcdef0123456789"}},
		},
		{
			name:  "CommentsAndBlanks",
			input: "# header\n\nhttps://example.com/a.png\n  # indented comment\n",
			want:  []Entry{{URL: "https://example.com/a.png"}},
		},
		{
			name:    "TooManyFields",
			input:   "https://example.com/a.png abc def\n",
			wantErr: true,
		},
		{
			name:    "NotAURL",
			input:   "certainly-not-a-url\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseManifest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseManifest() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRun_DownloadsAndVerifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.png":
			w.Write(pngPayload)
		case "/missing.png":
			http.NotFound(w, r)
		default:
			w.Write([]byte("plain text body"))
		}
	}))
	defer srv.Close()

	dest := t.TempDir()
	manifest := writeManifest(t, t.TempDir(),
		srv.URL+"/a.png "+md5Hex(pngPayload)+"\n"+
			srv.URL+"/missing.png\n")

	cfg := testConfig(t, dest)
	log := testLogger(t, cfg)

	res, err := Run(context.Background(), cfg, log, manifest)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Downloaded != 1 || res.Failed != 1 {
		t.Errorf("Downloaded = %d, Failed = %d, want 1 and 1", res.Downloaded, res.Failed)
	}
	got, err := os.ReadFile(filepath.Join(dest, "a.png"))
	if err != nil {
		t.Fatalf("a.png missing: %v", err)
	}
	if string(got) != string(pngPayload) {
		t.Error("a.png content differs from the served payload")
	}
	if _, err := os.Stat(filepath.Join(dest, "missing.png")); err == nil {
		t.Error("missing.png exists, want no artifact for a 404 entry")
	}
}

func TestRun_ChecksumMismatchRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngPayload)
	}))
	defer srv.Close()

	dest := t.TempDir()
	manifest := writeManifest(t, t.TempDir(),
		srv.URL+"/a.png "+strings.Repeat("0", 32)+"\n")

	cfg := testConfig(t, dest)
	log := testLogger(t, cfg)

	res, err := Run(context.Background(), cfg, log, manifest)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1", res.Failed)
	}
	if _, err := os.Stat(filepath.Join(dest, "a.png")); err == nil {
		t.Error("a.png exists, want mismatched download removed")
	}
}

func TestRun_SkipsCachedFile(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(pngPayload)
	}))
	defer srv.Close()

	dest := t.TempDir()
	if err := os.WriteFile(filepath.Join(dest, "a.png"), pngPayload, 0o644); err != nil {
		t.Fatal(err)
	}
	manifest := writeManifest(t, t.TempDir(),
		srv.URL+"/a.png "+md5Hex(pngPayload)+"\n")

	cfg := testConfig(t, dest)
	log := testLogger(t, cfg)

	res, err := Run(context.Background(), cfg, log, manifest)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	if hits != 0 {
		t.Errorf("server hit %d times, want 0 for a cached entry", hits)
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	dest := t.TempDir()
	manifest := writeManifest(t, t.TempDir(), "https://example.invalid/a.png\n")

	cfg := testConfig(t, dest)
	cfg.DryRun = true
	log := testLogger(t, cfg)

	res, err := Run(context.Background(), cfg, log, manifest)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Downloaded != 1 {
		t.Errorf("Downloaded = %d, want 1 (dry run counts planned fetches)", res.Downloaded)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files, want 0", len(entries))
	}
}

func TestRun_MissingManifest(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	log := testLogger(t, cfg)

	if _, err := Run(context.Background(), cfg, log, filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Run() with missing manifest should fail")
	}
}

func TestFileNameFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/images/cat.jpg", "cat.jpg"},
		{"https://example.com/cat.jpg?size=large", "cat.jpg"},
	}
	for _, tt := range tests {
		if got := fileNameFor(Entry{URL: tt.url}); got != tt.want {
			t.Errorf("fileNameFor(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}

	// A bare host has no path component to name the file after.
	got := fileNameFor(Entry{URL: "https://example.com/"})
	if !strings.HasPrefix(got, "download-") {
		t.Errorf("fileNameFor(bare host) = %q, want a download-<sum> fallback", got)
	}
}
