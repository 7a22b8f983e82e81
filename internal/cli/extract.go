package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/subkit/internal/media"
	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [video_file]",
		Short: "Extract an embedded subtitle stream from a video file",
		Long: `Extract a text subtitle stream from a video container and save it in
any supported subtitle format. Requires ffmpeg and ffprobe.

Image based streams (PGS, VobSub, DVB) cannot be extracted as text.

Examples:
  subkit extract movie.mkv --list
  subkit extract movie.mkv
  subkit extract movie.mkv --stream 1 -f vtt -o movie.fr.vtt`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().
		Int("stream", 0, "Subtitle stream number (0 is the first subtitle stream)")
	cmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format")
	cmd.Flags().
		Bool("list", false, "List subtitle streams and exit")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := cmd.Context()

	stream, _ := cmd.Flags().GetInt("stream")
	formatKey, _ := cmd.Flags().GetString("format")
	list, _ := cmd.Flags().GetBool("list")

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(videoPath))
	}

	streams, err := media.ProbeSubtitles(ctx, videoPath)
	if err != nil {
		return err
	}

	if list {
		for _, s := range streams {
			kind := "text"
			if !s.IsText() {
				kind = "image"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
				s.Index, s.Codec, kind, s.Language, s.Title)
		}
		return nil
	}

	if stream < 0 || stream >= len(streams) {
		return fmt.Errorf("subtitle stream %d not found: the file has %d", stream, len(streams))
	}
	if !streams[stream].IsText() {
		return fmt.Errorf("subtitle stream %d is image based (%s)", stream, streams[stream].Codec)
	}

	generator, err := generatorFor(formatKey, false)
	if err != nil {
		return err
	}
	out := outputPath(cmd, videoPath, "", generator.Format())

	tempDir, err := os.MkdirTemp("", "subkit-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"stream", stream,
		"codec", streams[stream].Codec,
		"language", streams[stream].Language,
		"output", out,
	)

	srtPath := filepath.Join(tempDir, "stream.srt")
	if err := media.ExtractSubtitles(ctx, videoPath, srtPath, stream); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	file, err := subtitle.Open(srtPath)
	if err != nil {
		return err
	}

	meta := documentMetadata(cmd)
	if meta.Language == "" {
		meta.Language = streams[stream].Language
	}
	if err := subtitle.WriteFile(out, generator, file.Captions, meta); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(out)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles extracted successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Captions: %d\n", len(file.Captions))

	return nil
}
