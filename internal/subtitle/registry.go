package subtitle

import (
	"maps"
	"slices"
	"strings"
)

// parsers by file extension
var parsers = map[string]Parser{
	"srt":  SRT{},
	"sbv":  SBV{},
	"ssa":  SSA{},
	"ass":  SSA{},
	"xml":  TTML{},
	"ttml": TTML{},
	"dfxp": DFXP{},
	"txt":  TXT{},
	"vtt":  VTT{},
}

// generators by output key
var generators = map[string]Generator{
	"srt":  SRT{},
	"sbv":  SBV{},
	"txt":  TXT{},
	"ssa":  SSA{},
	"xml":  TTML{},
	"ttml": TTML{},
	"dfxp": DFXP{},
	"vtt":  VTT{},
}

func registryKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(key), "."))
}

// ParserFor returns the parser registered for a file extension. A leading
// dot and letter case are ignored.
func ParserFor(ext string) (Parser, bool) {
	p, ok := parsers[registryKey(ext)]
	return p, ok
}

// GeneratorFor returns the generator registered for an output key.
func GeneratorFor(key string) (Generator, bool) {
	g, ok := generators[registryKey(key)]
	return g, ok
}

func ParserExtensions() []string {
	return slices.Sorted(maps.Keys(parsers))
}

func GeneratorKeys() []string {
	return slices.Sorted(maps.Keys(generators))
}

// DescribeExtensions lists the accepted extensions for people, e.g.
// ".ass, .dfxp or .xml".
func DescribeExtensions() string {
	exts := ParserExtensions()
	for i, ext := range exts {
		exts[i] = "." + ext
	}
	if len(exts) < 2 {
		return strings.Join(exts, "")
	}
	last := len(exts) - 1
	return strings.Join(exts[:last], ", ") + " or " + exts[last]
}

// WithNamedStyles switches TTML and DFXP generators to style references
// into the styling section. Other generators are returned unchanged.
func WithNamedStyles(g Generator) Generator {
	switch v := g.(type) {
	case TTML:
		v.NamedStyles = true
		return v
	case DFXP:
		v.NamedStyles = true
		return v
	}
	return g
}

// WithLineDelimiter changes the line delimiter of SRT and SBV generators.
func WithLineDelimiter(g Generator, delimiter string) Generator {
	switch v := g.(type) {
	case SRT:
		v.LineDelimiter = delimiter
		return v
	case SBV:
		v.LineDelimiter = delimiter
		return v
	}
	return g
}
