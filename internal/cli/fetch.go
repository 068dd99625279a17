package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <manifest> <dest-dir>",
	Short: "Download dataset images listed in a manifest",
	Long: `fetch reads a manifest of "URL [md5]" lines (blank lines and #-comments
ignored) and downloads each entry into dest-dir. An existing file with a
matching checksum is skipped; a mismatched download fails that entry only.`,
	Args: cobra.ExactArgs(2),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	cfg.DestDir = config.NormalizeDirArg(args[1])
	if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create destination %q", cfg.DestDir)
	}

	ctx, stop := signalContext()
	defer stop()

	_, err = fetch.Run(ctx, &cfg, log, args[0])
	return err
}
