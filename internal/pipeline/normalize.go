// Package pipeline orchestrates image classification, parallel transform
// execution, and batch summary reporting.
package pipeline

import (
	"context"
	"os"

	"github.com/spookworks/ganprep/internal/classify"
	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
	"github.com/spookworks/ganprep/internal/naming"
	"github.com/spookworks/ganprep/internal/transform"
)

// Normalize runs the two-phase normalization batch: classify the source tree,
// convert every image into the destination directory, then canvas-normalize
// the converted artifacts in place. Per-item failures are isolated; the
// returned stats describe a possibly partial artifact set.
func Normalize(ctx context.Context, cfg *config.Config, log *logging.Logger) (*RunStats, error) {
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

	// Phase 1: convert. Artifact paths are claimed up front so same-stem
	// sources from different subdirectories cannot overwrite each other.
	resolver := naming.NewCollisionResolver()
	ext := cfg.Format.Ext()
	convertJobs := make([]Job, 0, len(items))
	outputs := make([]string, 0, len(items))
	for _, it := range items {
		src := it.Path
		out := resolver.Resolve(src, naming.ArtifactPath(cfg.DestDir, it.Base(), "", ext))
		outputs = append(outputs, out)
		convertJobs = append(convertJobs, Job{
			Source: src,
			Output: out,
			Op:     transform.OpConvert,
			Fn:     func() error { return transform.Convert(cfg, src, out) },
		})
	}
	stats.Total = 2 * len(convertJobs)

	if cfg.DryRun {
		for _, j := range convertJobs {
			log.Info("[DRY] %s: %s -> %s", j.Op, j.Source, j.Output)
			log.Info("[DRY] %s: %s", transform.OpCanvas, j.Output)
		}
		logSummary(cfg, log, stats)
		return stats, nil
	}

	runner := NewRunner(cfg, log)
	if err := runner.Run(ctx, "convert", convertJobs, stats); err != nil {
		return stats, err
	}

	// Phase 2: canvas-normalize whatever phase 1 actually produced.
	canvasJobs := make([]Job, 0, len(outputs))
	for _, out := range outputs {
		if _, err := os.Stat(out); err != nil {
			continue
		}
		out := out
		canvasJobs = append(canvasJobs, Job{
			Source: out,
			Op:     transform.OpCanvas,
			Fn:     func() error { return transform.Canvas(cfg, out) },
		})
	}
	stats.Total = len(convertJobs) + len(canvasJobs)
	if err := runner.Run(ctx, "canvas", canvasJobs, stats); err != nil {
		return stats, err
	}

	stats.OutputBytes = sumSizes(outputs)
	logSummary(cfg, log, stats)
	return stats, nil
}
