// Package media pulls embedded subtitle streams out of video containers.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// SubtitleStream describes one subtitle track of a container.
type SubtitleStream struct {
	Index       int // position among the subtitle streams, as in -map 0:s:N
	StreamIndex int // position among all streams
	Codec       string
	Language    string
	Title       string
}

// bitmap codecs cannot be turned into text
var imageCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"dvd_subtitle":      true,
	"dvb_subtitle":      true,
	"xsub":              true,
}

// IsText reports whether the stream carries text that ffmpeg can convert.
func (s SubtitleStream) IsText() bool {
	return !imageCodecs[s.Codec]
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Streams []struct {
		Index     int    `json:"index"`
		CodecName string `json:"codec_name"`
		CodecType string `json:"codec_type"`
		Tags      struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

// ProbeSubtitles lists the subtitle streams of a video file.
func ProbeSubtitles(ctx context.Context, videoPath string) ([]SubtitleStream, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	paths, err := Locate()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, paths.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(out.Bytes())
}

func parseProbe(data []byte) ([]SubtitleStream, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var streams []SubtitleStream
	for _, s := range probe.Streams {
		if s.CodecType != "subtitle" {
			continue
		}
		streams = append(streams, SubtitleStream{
			Index:       len(streams),
			StreamIndex: s.Index,
			Codec:       s.CodecName,
			Language:    s.Tags.Language,
			Title:       s.Tags.Title,
		})
	}
	return streams, nil
}

// ExtractSubtitles converts subtitle stream n of a video into an SRT file.
func ExtractSubtitles(
	ctx context.Context,
	videoPath, outputPath string,
	stream int,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if stream < 0 {
		return fmt.Errorf("invalid subtitle stream %d", stream)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	paths, err := Locate()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = ffmpeg.Input(videoPath).
		Output(outputPath, extractArgs(stream)).
		OverWriteOutput().
		SetFfmpegPath(paths.FFmpeg).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return nil
}

func extractArgs(stream int) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"map": fmt.Sprintf("0:s:%d", stream),
		"c:s": "srt",
		"vn":  "",
		"an":  "",
	}
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".ts":   true,
	".3gp":  true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}
