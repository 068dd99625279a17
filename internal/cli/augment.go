package cli

import (
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/pipeline"
)

var augmentCmd = &cobra.Command{
	Use:   "augment <source-dir> <dest-dir>",
	Short: "Generate the fixed augmentation variants for every image",
	Long: `augment applies the full variant catalogue (deskew, hue shifts, channel
tints, brightness, contrast, contrast stretch, blur, sharpen) to every
classified image under source-dir, writing one tagged artifact per variant
into dest-dir. Variants fail independently.`,
	Args: cobra.ExactArgs(2),
	RunE: runAugment,
}

func init() {
	rootCmd.AddCommand(augmentCmd)
}

func runAugment(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

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

	_, err = pipeline.Augment(ctx, &cfg, log)
	return err
}
