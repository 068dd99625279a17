package pipeline

import (
	"fmt"
	"os"

	"github.com/spookworks/ganprep/internal/classify"
	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/display"
	"github.com/spookworks/ganprep/internal/logging"
	"github.com/spookworks/ganprep/internal/probe"
)

// logBatchHeader prints the run preamble shared by all batch commands.
func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d images (%s)", stats.Images, display.FormatBytes(stats.InputBytes))
	log.Info("Run ID: %s", stats.RunID)
	log.Info("Workers: %d", cfg.Workers)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
}

// logClassified prints a per-file stats line when enabled, and resolution
// outlier warnings regardless, so problem sources are visible in every run.
func logClassified(cfg *config.Config, log *logging.Logger, items []classify.Item) {
	for _, it := range items {
		info, err := probe.Probe(it.Path)
		if err != nil {
			// The transform will fail and report this item; don't do it here.
			log.Debug("probe failed: %s: %v", it.Rel, err)
			continue
		}
		if cfg.ShowStats {
			log.Info("  %s: %s | %s | %s", it.Rel, info.Resolution(), display.FormatBytes(info.Size), info.Format)
		}
		switch info.Outlier() {
		case "low":
			log.Warn("  Resolution outlier (low): %s is %s; it will be mostly padding on a %s canvas",
				it.Rel, info.Resolution(), display.FormatDimensions(cfg.Width, cfg.Height))
		case "high":
			log.Warn("  Resolution outlier (high): %s is %s; expect slow processing", it.Rel, info.Resolution())
		}
	}
}

// logSummary prints the batch footer.
func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d ok, %d failed (of %d jobs over %d images)",
		stats.Succeeded(), stats.Failed(), stats.Total, stats.Images)

	if cfg.DryRun {
		log.Info("Output: n/a (dry run)")
		return
	}
	log.Info("Output: %s (input %s)",
		display.FormatBytes(stats.OutputBytes), display.FormatBytes(stats.InputBytes))
	if stats.Failed() > 0 {
		log.Warn("Completed with %d per-file failures; the artifact set is partial", stats.Failed())
	} else {
		log.Success("All artifacts written")
	}
	fmt.Println()
}

// sumSizes returns the combined size of the files that exist among paths.
func sumSizes(paths []string) int64 {
	var total int64
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil {
			total += fi.Size()
		}
	}
	return total
}
