// Package classify implements content-based discovery of image files.
// Files are identified by magic-byte sniffing, never by extension: an image
// renamed to .txt is still found, and a text file renamed to .png is not.
package classify

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// ErrInputNotFound is returned when the source directory does not exist or
// cannot be read. It is fatal: the caller aborts before any artifact is written.
var ErrInputNotFound = errors.New("source directory not found or unreadable")

// Item is one classified source file.
type Item struct {
	Path string // Path as discovered (root-joined).
	Rel  string // Path relative to the scanned root.
	MIME string // Detected content type, e.g. "image/png".
	Size int64  // File size in bytes.
}

// Base returns the file name without directory or extension, used as the
// artifact stem.
func (it Item) Base() string {
	base := filepath.Base(it.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan walks root recursively and returns every regular file whose content
// sniffs as an image. Non-image files are filtered out silently. Unreadable
// individual files are skipped (per-item isolation); an unreadable root is
// fatal and reported as [ErrInputNotFound].
//
// No ordering is guaranteed beyond what filepath.WalkDir provides; downstream
// consumption is parallel and order-independent.
func Scan(root string) ([]Item, error) {
	var items []Item
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.Wrapf(ErrInputNotFound, "%s", root)
			}
			// A subdirectory or file vanished or is unreadable: skip it.
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		mime, ok := sniffImage(path)
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		items = append(items, Item{Path: path, Rel: rel, MIME: mime, Size: info.Size()})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return items, nil
}

// Sniff detects the content type of the file at path by reading its header.
// Charset parameters are stripped, so "text/plain; charset=utf-8" comes back
// as "text/plain".
func Sniff(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	mime := m.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return mime, nil
}

// sniffImage detects the content type of the file at path and reports whether
// it is an image.
func sniffImage(path string) (string, bool) {
	mime, err := Sniff(path)
	if err != nil || !strings.HasPrefix(mime, "image/") {
		return "", false
	}
	return mime, true
}
