// Package fetch downloads dataset images listed in a manifest file into the
// destination directory, with optional MD5 verification and a per-file
// progress bar. Entries fail independently, like every other batch op.
package fetch

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/spookworks/ganprep/internal/classify"
	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
	"github.com/spookworks/ganprep/internal/naming"
	"github.com/spookworks/ganprep/internal/term"
)

// Entry is one manifest line: a URL plus an optional expected MD5 checksum.
type Entry struct {
	URL string
	MD5 string
}

// Result summarizes a fetch run.
type Result struct {
	Total      int
	Downloaded int
	Skipped    int // Already present with a matching checksum.
	Failed     int
}

// ParseManifest reads a manifest: one "URL [md5]" pair per line, blank lines
// and #-comments ignored. A malformed line is a fatal configuration error,
// not a per-item one.
func ParseManifest(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) > 2 {
			return nil, errors.Errorf("manifest line %d: want 'URL [md5]', got %d fields", lineNo, len(fields))
		}
		e := Entry{URL: fields[0]}
		if len(fields) == 2 {
			e.MD5 = strings.ToLower(fields[1])
		}
		if _, err := url.ParseRequestURI(e.URL); err != nil {
			return nil, errors.Wrapf(err, "manifest line %d", lineNo)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}
	return entries, nil
}

// Run downloads every manifest entry into cfg.DestDir. Downloads are
// sequential so the per-file progress bars don't interleave; per-entry
// failures are logged and skipped.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, manifestPath string) (*Result, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open manifest %q", manifestPath)
	}
	entries, err := ParseManifest(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	res := &Result{Total: len(entries)}
	log.Info("Manifest: %d entries", len(entries))

	resolver := naming.NewCollisionResolver()
	for i, e := range entries {
		if ctx.Err() != nil {
			log.Warn("Interrupted: %d entries not fetched", len(entries)-i)
			break
		}

		dest := resolver.Resolve(e.URL, filepath.Join(cfg.DestDir, fileNameFor(e)))

		if e.MD5 != "" {
			sum, err := md5OfFile(dest)
			if err == nil && sum == e.MD5 {
				log.Debug("cached: %s", filepath.Base(dest))
				res.Skipped++
				continue
			}
		}

		if cfg.DryRun {
			log.Info("[DRY] fetch: %s -> %s", e.URL, dest)
			res.Downloaded++
			continue
		}

		if err := download(ctx, cfg, e, dest); err != nil {
			log.Error("fetch %q: %v", e.URL, err)
			res.Failed++
			continue
		}

		if mime, ok := sniff(dest); !ok {
			log.Warn("%s is not an image (%s); kept anyway", filepath.Base(dest), mime)
		}
		res.Downloaded++
	}

	log.Info("==============================")
	log.Info("Done: %d downloaded, %d cached, %d failed (of %d entries)",
		res.Downloaded, res.Skipped, res.Failed, res.Total)
	return res, nil
}

// download fetches one entry to dest, verifying the checksum when given.
// A failed or mismatched download removes the partial file.
func download(ctx context.Context, cfg *config.Config, e Entry, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	hash := md5.New()
	w := io.MultiWriter(out, hash)

	var copyErr error
	if cfg.Progress && term.IsTerminal(os.Stderr) && resp.ContentLength > 0 {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetDescription(filepath.Base(dest)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionEnableColorCodes(term.Enabled()),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
			progressbar.OptionClearOnFinish(),
		)
		_, copyErr = io.Copy(io.MultiWriter(w, bar), resp.Body)
		_ = bar.Finish()
	} else {
		_, copyErr = io.Copy(w, resp.Body)
	}
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil {
		os.Remove(dest)
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	}

	if e.MD5 != "" {
		sum := hex.EncodeToString(hash.Sum(nil))
		if sum != e.MD5 {
			os.Remove(dest)
			return errors.Errorf("checksum mismatch: got %s, want %s", sum, e.MD5)
		}
	}
	return nil
}

// fileNameFor derives the destination file name from the entry URL, falling
// back to a checksum-derived name when the URL path has none.
func fileNameFor(e Entry) string {
	u, err := url.Parse(e.URL)
	if err == nil {
		base := path.Base(u.Path)
		if base != "" && base != "." && base != "/" {
			return base
		}
	}
	sum := md5.Sum([]byte(e.URL))
	return fmt.Sprintf("download-%s", hex.EncodeToString(sum[:6]))
}

// md5OfFile returns the lowercase hex MD5 of the file at path.
func md5OfFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// sniff reports the detected content type of the downloaded file and whether
// it is an image.
func sniff(path string) (string, bool) {
	mime, err := classify.Sniff(path)
	if err != nil {
		return "unknown", false
	}
	return mime, strings.HasPrefix(mime, "image/")
}
