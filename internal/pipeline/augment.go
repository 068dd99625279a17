package pipeline

import (
	"context"

	"github.com/spookworks/ganprep/internal/classify"
	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
	"github.com/spookworks/ganprep/internal/naming"
	"github.com/spookworks/ganprep/internal/transform"
)

// Augment runs the augmentation batch: every classified image gets the full
// fixed variant catalogue applied, one artifact per (image, variant) pair.
// Variants fail independently; one bad operation never blocks the image's
// other variants or the rest of the batch.
func Augment(ctx context.Context, cfg *config.Config, log *logging.Logger) (*RunStats, error) {
	items, err := classify.Scan(cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	stats := NewRunStats(len(items))
	for _, it := range items {
		stats.InputBytes += it.Size
	}
	logBatchHeader(cfg, log, stats)
	logClassified(cfg, log, items)

	catalogue := transform.Catalogue()
	log.Info("Variants: %d per image", len(catalogue))

	resolver := naming.NewCollisionResolver()
	jobs := make([]Job, 0, len(items)*len(catalogue))
	outputs := make([]string, 0, len(items)*len(catalogue))
	for _, it := range items {
		src := it.Path
		ext := transform.ExtForMIME(cfg, it.MIME)
		for _, v := range catalogue {
			v := v
			out := resolver.Resolve(src, naming.ArtifactPath(cfg.DestDir, it.Base(), v.Tag, ext))
			outputs = append(outputs, out)
			jobs = append(jobs, Job{
				Source: src,
				Output: out,
				Op:     v.Tag,
				Fn:     func() error { return transform.Augment(cfg, src, out, v) },
			})
		}
	}
	stats.Total = len(jobs)

	if cfg.DryRun {
		for _, j := range jobs {
			log.Info("[DRY] %s: %s -> %s", j.Op, j.Source, j.Output)
		}
		logSummary(cfg, log, stats)
		return stats, nil
	}

	runner := NewRunner(cfg, log)
	if err := runner.Run(ctx, "augment", jobs, stats); err != nil {
		return stats, err
	}

	stats.OutputBytes = sumSizes(outputs)
	logSummary(cfg, log, stats)
	return stats, nil
}
