package cli

import (
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/train"
)

var trainCmd = &cobra.Command{
	Use:   "train <data-dir> <dataset-name> <checkpoint>",
	Short: "Launch the external trainer on a prepared dataset",
	Long: `train resolves all three arguments to absolute paths and launches the
external trainer with a fixed configuration: one accelerator device, the
named preset, mirror augmentation enabled, and checkpoints written under
--run-dir. The trainer inherits the terminal; its exit code is propagated.`,
	Args: cobra.ExactArgs(3),
	RunE: runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVar(&cfg.TrainerBin, "trainer", cfg.TrainerBin, "trainer executable")
	f.StringVar(&cfg.Preset, "preset", cfg.Preset, "named trainer configuration")
	f.StringVar(&cfg.RunDir, "run-dir", cfg.RunDir, "checkpoint output directory")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	req, err := train.NewRequest(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	return train.Run(ctx, &cfg, log, req)
}
