package subtitle

import (
	"encoding/json"
	"encoding/xml"
	"iter"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// YouTubeJSON reads the transcript JSON served for YouTube videos.
type YouTubeJSON struct{}

// YouTubeXML reads YouTube's timed-text XML.
type YouTubeXML struct{}

type youtubeRecord struct {
	StartMs float64 `json:"start_ms"`
	DurMs   float64 `json:"dur_ms"`
	Text    string  `json:"text"`
}

type youtubeTrack struct {
	PlaintextList []youtubeRecord `json:"plaintext_list"`
	Language      *string         `json:"language"`
}

// Transcript is a parsed YouTube JSON transcript. Records are ordered by
// start time.
type Transcript struct {
	Language string
	records  []youtubeRecord
}

func (t *Transcript) All() iter.Seq[Caption] {
	return func(yield func(Caption) bool) {
		for _, r := range t.records {
			c := Caption{
				StartTime: r.StartMs / 1000,
				EndTime:   (r.StartMs + r.DurMs) / 1000,
				Text:      r.Text,
			}
			if !yield(c) {
				return
			}
		}
	}
}

func (t *Transcript) Len() int {
	return len(t.records)
}

// ParseYouTubeJSON never fails: malformed or absent JSON gives an empty
// transcript.
func ParseYouTubeJSON(text string) *Transcript {
	var tracks []youtubeTrack
	if err := json.Unmarshal([]byte(text), &tracks); err != nil || len(tracks) == 0 {
		return &Transcript{}
	}

	track := tracks[0]
	records := slices.Clone(track.PlaintextList)
	slices.SortStableFunc(records, func(a, b youtubeRecord) int {
		switch {
		case a.StartMs < b.StartMs:
			return -1
		case a.StartMs > b.StartMs:
			return 1
		}
		return 0
	})

	t := &Transcript{records: records}
	if track.Language != nil {
		t.Language = *track.Language
	}
	return t
}

func (YouTubeJSON) Format() Format {
	return FormatYouTubeJSON
}

func (YouTubeJSON) Parse(text string) (Captions, error) {
	return ParseYouTubeJSON(text), nil
}

// ParseYouTubeXML reads every <text start="..."> child of the root. A
// caption ends where the next one starts; the last one has no end.
func ParseYouTubeXML(text string) (Captions, error) {
	root, err := parseXMLTree([]byte(text))
	if err != nil {
		return nil, &ParseError{Family: "YouTube XML", Err: err}
	}

	var nodes []*xmlNode
	for i := range root.Children {
		if root.Children[i].XMLName.Local == "text" {
			nodes = append(nodes, &root.Children[i])
		}
	}

	return mappedCaptions[*xmlNode]{
		items: nodes,
		convert: func(i int, n *xmlNode) Caption {
			c := Caption{
				StartTime: youtubeStart(n),
				EndTime:   NoTime,
				Text:      html.UnescapeString(innerText(n)),
			}
			if i+1 < len(nodes) {
				c.EndTime = youtubeStart(nodes[i+1])
			}
			return c
		},
	}, nil
}

func (YouTubeXML) Format() Format {
	return FormatYouTubeXML
}

func (YouTubeXML) Parse(text string) (Captions, error) {
	return ParseYouTubeXML(text)
}

func youtubeStart(n *xmlNode) float64 {
	v, err := strconv.ParseFloat(attrValue(n.Attrs, "start"), 64)
	if err != nil || !isTime(v) {
		return NoTime
	}
	return v
}

// innerText concatenates the character data directly inside n.
func innerText(n *xmlNode) string {
	var sb strings.Builder
	depth := 0
	d := newXMLDecoder(n.Inner)
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				sb.Write(t)
			}
		}
	}
	return sb.String()
}
