package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// YouTube SubViewer. LineDelimiter defaults to CRLF when empty.
type SBV struct {
	LineDelimiter string
}

var sbvBlockRegex = regexp.MustCompile(
	`(?s)(\d+):(\d{2}):(\d{2})\.(\d{3}),(\d+):(\d{2}):(\d{2})\.(\d{3})[ \t]*\n(.+?)\n\n`,
)

func (SBV) Format() Format {
	return FormatSBV
}

func (SBV) Parse(text string) (Captions, error) {
	return matchCaptions{
		text:    normalizeNewlines(text, "\n\n"),
		pattern: sbvBlockRegex,
		convert: func(g []string) Caption {
			return Caption{
				StartTime: boundClock(clockSeconds(g[1], g[2], g[3], g[4])),
				EndTime:   boundClock(clockSeconds(g[5], g[6], g[7], g[8])),
				Text:      HTMLToMarkup(g[9]),
			}
		},
	}, nil
}

func (s SBV) Generate(captions []Caption, _ Metadata) (string, error) {
	d := delimiterOr(s.LineDelimiter, "\r\n")

	var sb strings.Builder
	for _, c := range captions {
		if !c.Renderable() {
			continue
		}
		fmt.Fprintf(&sb, "%s,%s%s",
			EncodeTime(c.StartTime, FormatSBV),
			EncodeTime(c.EndTime, FormatSBV),
			d)
		sb.WriteString(strings.ReplaceAll(strings.TrimSpace(c.Text), "\n", d))
		sb.WriteString(d)
		sb.WriteString(d)
	}

	return sb.String(), nil
}
