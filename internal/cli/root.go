package cli

import (
	"github.com/joho/godotenv"
	"github.com/mgpai22/subkit/internal/config"
	"github.com/mgpai22/subkit/internal/logging"
	"github.com/spf13/cobra"
)

// commands annotated this way run without reading the config file
const (
	annotationConfig = "config"
	configSkip       = "skip"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subkit",
		Short: "Convert, inspect and translate subtitle files",
		Long: `Subkit reads and writes SRT, WebVTT, SBV, SSA/ASS, TTML, DFXP and plain
text subtitles, and reads YouTube transcripts.

Bold, italic and underline survive conversion between formats that can
express them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// API keys may live in a .env file next to the subtitles
			_ = godotenv.Load()

			logger = logging.NewLogger(verbose)

			if cmd.Annotations[annotationConfig] == configSkip {
				cfg = config.Default()
				return nil
			}
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default: user config dir/subkit/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
	rootCmd.PersistentFlags().String("title", "", "Document title for formats that carry one")

	rootCmd.AddCommand(
		newConvertCmd(),
		newInspectCmd(),
		newCompareCmd(),
		newFormatsCmd(),
		newTranslateCmd(),
		newExtractCmd(),
		newConfigCmd(),
	)

	return rootCmd
}

func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return newRootCmd().Execute()
}
