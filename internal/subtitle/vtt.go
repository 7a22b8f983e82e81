package subtitle

import (
	"bufio"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// WebVTT. Cue identifiers are kept in Caption.ID.
type VTT struct{}

var vttTimingRegex = regexp.MustCompile(
	`^(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d+):)?(\d{2}):(\d{2})\.(\d{3})`,
)

var vttIDCleaner = strings.NewReplacer("-->", "", "\r", " ", "\n", " ")

func (VTT) Format() Format {
	return FormatVTT
}

func (VTT) Parse(text string) (Captions, error) {
	return vttCaptions{text: text}, nil
}

type vttCaptions struct {
	text string
}

func (v vttCaptions) All() iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		scanner := bufio.NewScanner(strings.NewReader(v.text))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var (
			current   *Caption
			textLines []string
			pendingID string
			inHeader  bool
			skipBlock bool
			lineNum   int
		)

		flush := func() bool {
			if current == nil {
				return true
			}
			current.Text = HTMLToMarkup(strings.Join(textLines, "\n"))
			c := *current
			current, textLines = nil, nil
			return yield(c)
		}

		for scanner.Scan() {
			line := scanner.Text()
			lineNum++

			if lineNum == 1 {
				line = strings.TrimPrefix(line, "\ufeff")
				if strings.HasPrefix(strings.TrimSpace(line), "WEBVTT") {
					inHeader = true
					continue
				}
			}

			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				if !flush() {
					return
				}
				pendingID = ""
				inHeader, skipBlock = false, false
				continue
			}
			if inHeader || skipBlock {
				continue
			}

			// comment and style blocks run until the next blank line
			if current == nil && isVTTSpecialBlock(trimmed) {
				skipBlock = true
				continue
			}

			if m := vttTimingRegex.FindStringSubmatch(trimmed); m != nil {
				if !flush() {
					return
				}
				current = &Caption{
					StartTime: boundClock(clockSeconds(m[1], m[2], m[3], m[4])),
					EndTime:   boundClock(clockSeconds(m[5], m[6], m[7], m[8])),
					ID:        pendingID,
				}
				pendingID = ""
				continue
			}

			if current != nil {
				textLines = append(textLines, line)
			} else {
				pendingID = trimmed
			}
		}

		flush()
	}
}

func (v vttCaptions) Len() int {
	n := 0
	for range v.All() {
		n++
	}
	return n
}

func isVTTSpecialBlock(line string) bool {
	for _, prefix := range []string{"NOTE", "STYLE", "REGION"} {
		if line == prefix || strings.HasPrefix(line, prefix+" ") ||
			strings.HasPrefix(line, prefix+"\t") {
			return true
		}
	}
	return false
}

func (VTT) Generate(captions []Caption, _ Metadata) (string, error) {
	var sb strings.Builder

	// VTT header
	sb.WriteString("WEBVTT\n\n")

	index := 0
	for _, c := range captions {
		if !c.Renderable() {
			continue
		}
		index++

		// cue identifier
		id := vttIDCleaner.Replace(c.ID)
		if strings.TrimSpace(id) == "" {
			id = strconv.Itoa(index)
		}
		sb.WriteString(id)
		sb.WriteString("\n")

		fmt.Fprintf(&sb, "%s --> %s\n",
			EncodeTime(c.StartTime, FormatVTT),
			EncodeTime(c.EndTime, FormatVTT))

		sb.WriteString(markupToCueHTML(strings.TrimSpace(c.Text)))
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}
