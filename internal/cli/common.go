package cli

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/spf13/cobra"
)

// sources readable through --from besides the registered extensions
var namedSources = map[string]subtitle.Parser{
	"youtube-json": subtitle.YouTubeJSON{},
	"youtube-xml":  subtitle.YouTubeXML{},
	"speakertext":  subtitle.SpeakerText{},
}

func namedSourceKeys() []string {
	return slices.Sorted(maps.Keys(namedSources))
}

// readCaptions opens a subtitle file, choosing the parser from the
// extension unless from names one.
func readCaptions(path, from string) (*subtitle.File, error) {
	from = strings.ToLower(strings.TrimSpace(from))
	if from == "" {
		return subtitle.Open(path)
	}

	parser, ok := namedSources[from]
	if !ok {
		parser, ok = subtitle.ParserFor(from)
	}
	if !ok {
		return nil, fmt.Errorf("%w %q: expected %s, or one of %s",
			subtitle.ErrUnsupportedFormat, from, subtitle.DescribeExtensions(),
			strings.Join(namedSourceKeys(), ", "))
	}
	return subtitle.OpenWith(path, parser)
}

// generatorFor resolves an output key and applies the configured options.
func generatorFor(key string, namedStyles bool) (subtitle.Generator, error) {
	g, ok := subtitle.GeneratorFor(key)
	if !ok {
		return nil, fmt.Errorf("%w %q: use one of %s",
			subtitle.ErrUnsupportedFormat, key, strings.Join(subtitle.GeneratorKeys(), ", "))
	}
	if namedStyles || cfg.NamedStyles {
		g = subtitle.WithNamedStyles(g)
	}
	return subtitle.WithLineDelimiter(g, cfg.Delimiter()), nil
}

// documentMetadata takes title and language from the flags, falling back
// to the config file.
func documentMetadata(cmd *cobra.Command) subtitle.Metadata {
	meta := subtitle.Metadata{Title: cfg.Title, Language: cfg.Language}
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		meta.Title = title
	}
	if lang, _ := cmd.Flags().GetString("language"); lang != "" {
		meta.Language = lang
	}
	return meta
}

// outputPath is the --output flag, or the input path with its extension
// replaced by suffix and the format's extension.
func outputPath(cmd *cobra.Command, input, suffix string, format subtitle.Format) string {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix + subtitle.GetExtensionForFormat(format)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
