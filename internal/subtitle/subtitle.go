package subtitle

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"regexp"
	"slices"
	"strings"
)

// NoTime marks a caption boundary with unknown timing.
const NoTime = -1.0

// MaxSubtitleTime is the largest clock value accepted when decoding, in seconds.
const MaxSubtitleTime = 100*60*60 - 1

// represents single caption in the internal markup dialect
type Caption struct {
	StartTime float64           `json:"start_time"`
	EndTime   float64           `json:"end_time"`
	Text      string            `json:"subtitle_text"`
	ID        string            `json:"id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Renderable reports whether both boundaries carry real timing.
func (c Caption) Renderable() bool {
	return isTime(c.StartTime) && isTime(c.EndTime)
}

func isTime(v float64) bool {
	return v != NoTime && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// caller supplied document information
type Metadata struct {
	Title    string
	Language string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT         Format = "srt"
	FormatSBV         Format = "sbv"
	FormatSSA         Format = "ssa"
	FormatTXT         Format = "txt"
	FormatTTML        Format = "ttml"
	FormatDFXP        Format = "dfxp"
	FormatVTT         Format = "vtt"
	FormatYouTubeXML  Format = "youtube-xml"
	FormatYouTubeJSON Format = "youtube-json"
	FormatSpeakerText Format = "speakertext"
)

// Captions is the lazily extracted result of a parse. All re-runs the
// extraction on every call.
type Captions interface {
	All() iter.Seq[Caption]
	Len() int
}

// interface for parsing subtitle documents
type Parser interface {
	Format() Format
	Parse(text string) (Captions, error)
}

// interface for generating subtitle documents
type Generator interface {
	Format() Format
	Generate(captions []Caption, meta Metadata) (string, error)
}

// Collect realizes a parse result into a caption slice.
func Collect(c Captions) []Caption {
	if c == nil {
		return nil
	}
	return slices.Collect(c.All())
}

var (
	ErrIncorrectFormat   = errors.New("incorrect subtitle format")
	ErrMissingLanguage   = errors.New("language tag is required")
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
)

// ParseError reports a document whose required structure could not be found.
type ParseError struct {
	Family string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Incorrect format of %s subtitles", e.Family)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrIncorrectFormat
}

// sliceCaptions serves captions that are cheap to realize up front.
type sliceCaptions []Caption

func (s sliceCaptions) All() iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		for _, c := range s {
			if !yield(c) {
				return
			}
		}
	}
}

func (s sliceCaptions) Len() int {
	return len(s)
}

// mappedCaptions converts source items on every iteration.
type mappedCaptions[T any] struct {
	items   []T
	convert func(i int, item T) Caption
}

func (m mappedCaptions[T]) All() iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		for i, item := range m.items {
			if !yield(m.convert(i, item)) {
				return
			}
		}
	}
}

func (m mappedCaptions[T]) Len() int {
	return len(m.items)
}

// matchCaptions re-runs a compiled pattern over normalized text on every
// iteration. Blocks that do not match are simply absent.
type matchCaptions struct {
	text    string
	pattern *regexp.Regexp
	convert func(groups []string) Caption
}

func (m matchCaptions) All() iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		for _, groups := range m.pattern.FindAllStringSubmatch(m.text, -1) {
			if !yield(m.convert(groups)) {
				return
			}
		}
	}
}

func (m matchCaptions) Len() int {
	return len(m.pattern.FindAllStringIndex(m.text, -1))
}

// normalizeNewlines drops a byte order mark, turns CRLF into LF and appends
// the blank block that terminates the final entry.
func normalizeNewlines(text, terminator string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n") + terminator
}
