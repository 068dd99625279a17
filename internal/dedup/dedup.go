// Package dedup removes exact and near-duplicate images using perceptual
// hashing: every classified image is hashed, images within the configured
// hamming distance of an already-kept image are dropped, and one
// representative of each group is copied to the destination directory.
package dedup

import (
	"context"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/corona10/goimagehash"
	"github.com/pkg/errors"

	"github.com/spookworks/ganprep/internal/classify"
	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
	"github.com/spookworks/ganprep/internal/naming"
	"github.com/spookworks/ganprep/internal/pipeline"
)

// Result summarizes a dedup run.
type Result struct {
	Total      int // Classified source images.
	Duplicates int // Images dropped as near-duplicates.
	Kept       int // Images copied to the destination.
	Failed     int // Images that could not be hashed or copied.
}

// hashed pairs a source item with its perceptual hash. Slots stay nil when
// hashing failed; failures are isolated per item like every other batch op.
type hashed struct {
	item classify.Item
	hash *goimagehash.ImageHash
}

// Run executes the dedup batch. Hashing runs on the parallel runner; the
// grouping pass is sequential (it compares against the kept set).
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (*Result, error) {
	items, err := classify.Scan(cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	stats := pipeline.NewRunStats(len(items))
	stats.Total = len(items)
	log.Info("Found %d images", len(items))
	log.Info("Run ID: %s", stats.RunID)
	log.Info("Method: %s, max distance: %d", cfg.DedupMethod, cfg.MaxDistance)

	// Hash in parallel; each job writes only its own slot.
	slots := make([]hashed, len(items))
	jobs := make([]pipeline.Job, 0, len(items))
	for i, it := range items {
		i, it := i, it
		jobs = append(jobs, pipeline.Job{
			Source: it.Path,
			Op:     string(cfg.DedupMethod),
			Fn: func() error {
				h, err := hashFile(cfg.DedupMethod, it.Path)
				if err != nil {
					return errors.Wrapf(err, "%s %q", cfg.DedupMethod, it.Path)
				}
				slots[i] = hashed{item: it, hash: h}
				return nil
			},
		})
	}
	if err := pipeline.NewRunner(cfg, log).Run(ctx, "hash", jobs, stats); err != nil {
		return nil, err
	}

	res := &Result{Total: len(items), Failed: stats.Failed()}

	// Greedy grouping: the first image of each group (in walk order) is the
	// representative; everything within MaxDistance of a kept hash is dropped.
	resolver := naming.NewCollisionResolver()
	var kept []hashed
	for _, h := range slots {
		if h.hash == nil {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if isDuplicate(h.hash, kept, cfg.MaxDistance) {
			res.Duplicates++
			log.Debug("duplicate: %s", h.item.Rel)
			continue
		}
		kept = append(kept, h)

		dest := resolver.Resolve(h.item.Path, filepath.Join(cfg.DestDir, filepath.Base(h.item.Path)))
		if cfg.DryRun {
			log.Info("[DRY] keep: %s -> %s", h.item.Rel, dest)
			res.Kept++
			continue
		}
		if err := copyFile(h.item.Path, dest); err != nil {
			log.Error("copy %q: %v", h.item.Rel, err)
			res.Failed++
			continue
		}
		res.Kept++
	}

	logReport(cfg, log, res)
	return res, nil
}

// isDuplicate reports whether h is within maxDistance of any kept hash.
// Hashes of different kinds never match; Distance errors on kind mismatch,
// which cannot happen here since one method is used per run.
func isDuplicate(h *goimagehash.ImageHash, kept []hashed, maxDistance int) bool {
	for _, k := range kept {
		d, err := h.Distance(k.hash)
		if err != nil {
			continue
		}
		if d <= maxDistance {
			return true
		}
	}
	return false
}

// hashFile decodes the image at path and hashes it with the chosen method.
func hashFile(method config.DedupMethod, path string) (*goimagehash.ImageHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	switch method {
	case config.DedupAHash:
		return goimagehash.AverageHash(img)
	case config.DedupDHash:
		return goimagehash.DifferenceHash(img)
	default:
		return goimagehash.PerceptionHash(img)
	}
}

// copyFile copies src to dest without preserving metadata.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// logReport prints the dedup footer; the detailed percentages only under
// --summary, matching the legacy script's report block.
func logReport(cfg *config.Config, log *logging.Logger, res *Result) {
	log.Info("==============================")
	log.Info("Done: %d kept, %d duplicates, %d failed (of %d images)",
		res.Kept, res.Duplicates, res.Failed, res.Total)
	if !cfg.Summary || res.Total == 0 {
		return
	}
	pct := float64(res.Duplicates) / float64(res.Total) * 100
	log.Success("Found %d (out of %d images; %.2f%%) duplicates", res.Duplicates, res.Total, pct)
}
