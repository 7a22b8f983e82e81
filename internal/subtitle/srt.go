package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// SubRip. LineDelimiter defaults to CRLF when empty.
type SRT struct {
	LineDelimiter string
}

var (
	srtBlockRegex = regexp.MustCompile(
		`(?s)\d+\s*?\n` +
			`(\d+):(\d{2}):(\d{2})(?:[,.](\d*))?` +
			` --> ` +
			`(\d+):(\d{2}):(\d{2})(?:[,.](\d*))?[ \t]*` +
			`\n(?:\n|(.+?)\n\n)`,
	)
	srtBraceRegex = regexp.MustCompile(`(?s)\{.*?\}`)
)

func (SRT) Format() Format {
	return FormatSRT
}

func (SRT) Parse(text string) (Captions, error) {
	return matchCaptions{
		text:    normalizeNewlines(text, "\n\n"),
		pattern: srtBlockRegex,
		convert: func(g []string) Caption {
			return Caption{
				StartTime: boundClock(clockSeconds(g[1], g[2], g[3], g[4])),
				EndTime:   boundClock(clockSeconds(g[5], g[6], g[7], g[8])),
				Text:      HTMLToMarkup(srtBraceRegex.ReplaceAllString(g[9], "")),
			}
		},
	}, nil
}

func (s SRT) Generate(captions []Caption, _ Metadata) (string, error) {
	d := delimiterOr(s.LineDelimiter, "\r\n")

	var sb strings.Builder
	index := 0
	for _, c := range captions {
		if !c.Renderable() {
			continue
		}
		index++

		sb.WriteString(strconv.Itoa(index))
		sb.WriteString(d)
		fmt.Fprintf(&sb, "%s --> %s%s",
			EncodeTime(c.StartTime, FormatSRT),
			EncodeTime(c.EndTime, FormatSRT),
			d)
		text := strings.TrimSpace(html.UnescapeString(c.Text))
		sb.WriteString(strings.ReplaceAll(MarkupToHTML(text), "\n", d))
		sb.WriteString(d)
		sb.WriteString(d)
	}

	return sb.String(), nil
}

func delimiterOr(d, fallback string) string {
	if d == "" {
		return fallback
	}
	return d
}
