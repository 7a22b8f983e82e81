package subtitle

import (
	"regexp"
	"strings"
)

// Plain text, one caption per blank-line separated block. Timing is not
// carried in either direction.
type TXT struct{}

var (
	txtNewlines   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	txtBlankRegex = regexp.MustCompile(`\n[ \t]*\n\s*`)
)

const txtDelimiter = "\r\n\r\n"

func (TXT) Format() Format {
	return FormatTXT
}

func (TXT) Parse(text string) (Captions, error) {
	text = strings.TrimSpace(txtNewlines.Replace(strings.TrimPrefix(text, "\ufeff")))

	var blocks []string
	if text != "" {
		for _, block := range txtBlankRegex.Split(text, -1) {
			if block = strings.TrimSpace(block); block != "" {
				blocks = append(blocks, block)
			}
		}
	}

	return mappedCaptions[string]{
		items: blocks,
		convert: func(_ int, block string) Caption {
			return Caption{
				StartTime: NoTime,
				EndTime:   NoTime,
				Text:      strings.TrimSpace(HTMLToMarkup(block)),
			}
		},
	}, nil
}

func (TXT) Generate(captions []Caption, _ Metadata) (string, error) {
	var blocks []string
	for _, c := range captions {
		if text := strings.TrimSpace(c.Text); text != "" {
			blocks = append(blocks, text)
		}
	}
	return strings.Join(blocks, txtDelimiter), nil
}
