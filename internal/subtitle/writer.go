package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFile generates a document with g and writes it to path, creating
// parent directories as needed.
func WriteFile(path string, g Generator, captions []Caption, meta Metadata) error {
	out, err := g.Generate(captions, meta)
	if err != nil {
		return fmt.Errorf("failed to generate %s subtitles: %w", g.Format(), err)
	}

	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) (Format, bool) {
	p, ok := ParserFor(filepath.Ext(path))
	if !ok {
		return "", false
	}
	return p.Format(), true
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatTTML, FormatYouTubeXML, FormatSpeakerText:
		return ".xml"
	case FormatYouTubeJSON:
		return ".json"
	default:
		return "." + strings.ToLower(string(format))
	}
}
