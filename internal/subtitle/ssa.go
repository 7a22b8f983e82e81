package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// SubStation Alpha and Advanced SubStation Alpha. Only Dialogue lines are
// read; Title feeds the [Script Info] section on output.
type SSA struct {
	FontName string
	FontSize int
}

var ssaDialogueRegex = regexp.MustCompile(
	`(?m)^Dialogue:[ \t]*[\w=]+,` + // layer or marked
		`(\d+):(\d{2}):(\d{2})[.:](\d+),` + // start
		`(\d+):(\d{2}):(\d{2})[.:](\d+),` + // end
		`[^,\n]*,[^,\n]*,` + // style, name
		`\d+,\d+,\d+,` + // margins
		`[^,\n]*,` + // effect
		`([^\n]*)$`,
)

// header values end at the line break
var ssaHeaderEscaper = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

const ssaEventFormat = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

func (SSA) Format() Format {
	return FormatSSA
}

func (SSA) Parse(text string) (Captions, error) {
	return matchCaptions{
		text:    normalizeNewlines(text, "\n"),
		pattern: ssaDialogueRegex,
		convert: func(g []string) Caption {
			return Caption{
				StartTime: boundClock(clockSeconds(g[1], g[2], g[3], g[4])),
				EndTime:   boundClock(clockSeconds(g[5], g[6], g[7], g[8])),
				Text:      collapseLines(SSAToMarkup(g[9])),
			}
		},
	}, nil
}

func (s SSA) Generate(captions []Caption, meta Metadata) (string, error) {
	const d = "\r\n"

	fontName := s.FontName
	if fontName == "" {
		fontName = "Arial"
	}
	fontSize := s.FontSize
	if fontSize <= 0 {
		fontSize = 20
	}

	var sb strings.Builder
	sb.WriteString("\ufeff")

	// script info section
	sb.WriteString("[Script Info]" + d)
	sb.WriteString("Title: " + ssaHeaderEscaper.Replace(meta.Title) + d)
	sb.WriteString("ScriptType: v4.00+" + d)
	sb.WriteString(d)

	// v4+ styles section
	sb.WriteString("[V4+ Styles]" + d)
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding" + d)
	fmt.Fprintf(&sb, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1%s",
		fontName, fontSize, d)
	sb.WriteString(d)

	// events section
	sb.WriteString("[Events]" + d)
	sb.WriteString(ssaEventFormat + d)
	for _, c := range captions {
		if !c.Renderable() {
			continue
		}
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0000,0000,0000,,%s%s",
			EncodeTime(c.StartTime, FormatSSA),
			EncodeTime(c.EndTime, FormatSSA),
			MarkupToSSA(strings.TrimSpace(c.Text)),
			d)
	}

	return sb.String(), nil
}
