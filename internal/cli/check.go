package cli

import (
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/check"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run system diagnostics",
	Long: `check verifies the trainer binary is on PATH, round-trips a test image
through the JPEG and PNG codecs, and reports the worker default. Codec
failures are informational; a missing trainer fails the check.`,
	Args: cobra.NoArgs,
	RunE: runCheckCmd,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	return check.RunCheck(&cfg, log)
}
