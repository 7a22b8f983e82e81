package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [subtitle_file]",
		Short: "Convert a subtitle file to another format",
		Long: `Convert a subtitle file to another format.

The input format is taken from the file extension unless --from names it.
YouTube transcripts are read with --from youtube-json or --from youtube-xml,
SpeakerText transcripts with --from speakertext.

TTML and DFXP output requires a language, from --language or the config file.

Examples:
  subkit convert movie.srt -f vtt
  subkit convert movie.ass -f ttml -l en --named-styles
  subkit convert transcript.json --from youtube-json -f srt --max-chars 42`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}

	cmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, sbv, ssa, txt, ttml, dfxp, xml)")
	cmd.Flags().
		String("from", "", "Input format, overriding the file extension")
	cmd.Flags().
		Int("max-chars", 0, "Rewrap plain captions to this many characters per line (0 keeps them)")
	cmd.Flags().
		Bool("named-styles", false, "Reference named styles in TTML/DFXP output instead of inline attributes")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	formatKey, _ := cmd.Flags().GetString("format")
	from, _ := cmd.Flags().GetString("from")
	maxChars, _ := cmd.Flags().GetInt("max-chars")
	namedStyles, _ := cmd.Flags().GetBool("named-styles")

	if maxChars < 0 {
		return fmt.Errorf("max-chars must not be negative, got %d", maxChars)
	}

	generator, err := generatorFor(formatKey, namedStyles)
	if err != nil {
		return err
	}

	out := outputPath(cmd, inputPath, "", generator.Format())
	if samePath(inputPath, out) {
		return fmt.Errorf("output %s would overwrite the input: use --output", out)
	}

	logger.Infow("Converting subtitles",
		"input", inputPath,
		"output", out,
		"format", generator.Format(),
	)

	file, err := readCaptions(inputPath, from)
	if err != nil {
		return err
	}

	logger.Debugw("Parsed subtitle file",
		"format", file.Format,
		"captions", len(file.Captions),
	)

	captions := file.Captions
	if maxChars > 0 {
		captions = subtitle.NewReflower(maxChars).Reflow(captions)
		logger.Debugw("Reflowed captions",
			"before", len(file.Captions),
			"after", len(captions),
		)
	}

	if err := subtitle.WriteFile(out, generator, captions, documentMetadata(cmd)); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(out)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles converted successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Captions: %d\n", len(captions))
	fmt.Fprintf(cmd.OutOrStdout(), "  Format: %s -> %s\n", file.Format, generator.Format())

	return nil
}
