package subtitle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/subkit/internal/charset"
)

// parsed subtitle file
type File struct {
	Path     string
	Format   Format
	Captions []Caption
}

// Open reads a subtitle file, decodes its character set and parses it
// with the parser registered for its extension.
func Open(path string) (*File, error) {
	ext := filepath.Ext(path)
	parser, ok := ParserFor(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q (expected %s)",
			ErrUnsupportedFormat, ext, DescribeExtensions())
	}
	return OpenWith(path, parser)
}

// OpenWith is Open with an explicit parser, for files whose extension
// does not identify the format.
func OpenWith(path string, parser Parser) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	text, err := charset.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode subtitle file: %w", err)
	}

	captions, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &File{
		Path:     path,
		Format:   parser.Format(),
		Captions: Collect(captions),
	}, nil
}
