package cli

import (
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/dedup"
)

var dedupMethodFlag string

var dedupCmd = &cobra.Command{
	Use:   "dedup <source-dir> <dest-dir>",
	Short: "Copy only perceptually unique images to the destination",
	Long: `dedup hashes every classified image under source-dir and copies one
representative per near-duplicate group into dest-dir. Two images are
duplicates when their hashes are within --max-distance of each other.`,
	Args: cobra.ExactArgs(2),
	RunE: runDedup,
}

func init() {
	f := dedupCmd.Flags()
	f.StringVar(&dedupMethodFlag, "method", string(cfg.DedupMethod),
		"perceptual hash: phash, ahash or dhash")
	f.IntVar(&cfg.MaxDistance, "max-distance", cfg.MaxDistance,
		"max hamming distance between duplicate hashes")
	f.BoolVar(&cfg.Summary, "summary", false, "print the duplicate percentage report")
	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg.DedupMethod = config.DedupMethod(dedupMethodFlag)

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

	_, err = dedup.Run(ctx, &cfg, log)
	return err
}
