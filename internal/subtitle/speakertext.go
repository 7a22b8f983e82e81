package subtitle

import (
	"errors"
	"strconv"
	"strings"
)

// SpeakerText reads SpeakerText transcripts: <content> elements inside a
// <transcript> with millisecond timestamp and end_timestamp attributes.
type SpeakerText struct{}

func (SpeakerText) Format() Format {
	return FormatSpeakerText
}

func (SpeakerText) Parse(text string) (Captions, error) {
	return ParseSpeakerText(text)
}

// ParseSpeakerText fails when the document is not XML or has no
// <transcript> element. Unreadable timestamps decode to NoTime.
func ParseSpeakerText(text string) (Captions, error) {
	root, err := parseXMLTree([]byte(text))
	if err != nil {
		return nil, &ParseError{Family: "SpeakerText", Err: err}
	}

	transcript := root.find("transcript")
	if transcript == nil {
		return nil, &ParseError{Family: "SpeakerText", Err: errors.New("document has no transcript element")}
	}

	return mappedCaptions[*xmlNode]{
		items: transcript.findAll("content"),
		convert: func(_ int, n *xmlNode) Caption {
			return Caption{
				StartTime: speakerTextTime(attrValue(n.Attrs, "timestamp")),
				EndTime:   speakerTextTime(attrValue(n.Attrs, "end_timestamp")),
				Text:      strings.TrimSpace(HTMLToMarkup(string(n.Inner))),
			}
		},
	}, nil
}

func speakerTextTime(millis string) float64 {
	n, err := strconv.ParseUint(millis, 10, 64)
	if err != nil {
		return NoTime
	}
	return boundClock(float64(n) / 1000)
}
