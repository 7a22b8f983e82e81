package media

import (
	"errors"
	"os"
	"os/exec"
	"sync"
)

// BinaryPaths locates the ffmpeg tools used for stream extraction.
type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var ErrFFmpegNotFound = errors.New(
	"ffmpeg and ffprobe are required: install them or set SUBKIT_FFMPEG_PATH and SUBKIT_FFPROBE_PATH",
)

var (
	locateOnce sync.Once
	locateErr  error
	locatePath BinaryPaths
)

// Locate resolves the ffmpeg and ffprobe binaries once per process. The
// SUBKIT_FFMPEG_PATH and SUBKIT_FFPROBE_PATH variables win over PATH.
func Locate() (BinaryPaths, error) {
	locateOnce.Do(func() {
		locatePath, locateErr = locate(os.Getenv, exec.LookPath)
	})
	return locatePath, locateErr
}

func locate(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  getenv("SUBKIT_FFMPEG_PATH"),
		FFprobe: getenv("SUBKIT_FFPROBE_PATH"),
	}

	if paths.FFmpeg == "" {
		if found, err := lookPath("ffmpeg"); err == nil {
			paths.FFmpeg = found
		}
	}
	if paths.FFprobe == "" {
		if found, err := lookPath("ffprobe"); err == nil {
			paths.FFprobe = found
		}
	}

	if paths.FFmpeg == "" || paths.FFprobe == "" {
		return BinaryPaths{}, ErrFFmpegNotFound
	}
	return paths, nil
}
