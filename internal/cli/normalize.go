package cli

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/pipeline"
)

var formatFlag string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <source-dir> <dest-dir> [width] [height] [quality]",
	Short: "Convert images and fit them onto a fixed canvas",
	Long: `normalize converts every classified image under source-dir to the target
format, then shrinks (never upscales) and pads each output onto an exactly
width x height canvas with a centered black background.

Quality is 1-100; omit it (or pass -1) to use the codec's default. Pass 33
to reproduce the legacy v1 behavior.`,
	Args: cobra.RangeArgs(2, 5),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&formatFlag, "format", "f", string(cfg.Format),
		"target image format: jpg or png")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg.Format = config.Format(formatFlag)
	var err error
	if len(args) > 2 {
		if cfg.Width, err = parseIntArg(args[2], "width"); err != nil {
			return err
		}
	}
	if len(args) > 3 {
		if cfg.Height, err = parseIntArg(args[3], "height"); err != nil {
			return err
		}
	}
	if len(args) > 4 {
		if cfg.Quality, err = parseIntArg(args[4], "quality"); err != nil {
			return err
		}
	}

	log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	if err := resolveDirs(args[0], args[1]); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	_, err = pipeline.Normalize(ctx, &cfg, log)
	return err
}

// parseIntArg parses an optional numeric positional.
func parseIntArg(s, name string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("%s must be an integer (got %q)", name, s)
	}
	return n, nil
}
