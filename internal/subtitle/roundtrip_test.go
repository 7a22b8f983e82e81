package subtitle

import (
	"strings"
	"testing"
	"time"

	"github.com/asticode/go-astisub"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var roundTripCaptions = []Caption{
	{StartTime: 1.0, EndTime: 2.5, Text: "Hello"},
	{StartTime: 3.25, EndTime: 5.75, Text: "**Bold** and *italic*"},
	{StartTime: 6.125, EndTime: 8.5, Text: "Fish & chips"},
	{StartTime: 3725.5, EndTime: 3727, Text: "an hour later"},
}

func TestRoundTrip(t *testing.T) {
	meta := Metadata{Title: "Round trip", Language: "en"}

	// tolerance covers each format's fractional precision
	tests := []struct {
		key       string
		tolerance float64
	}{
		{"srt", 0.0011},
		{"sbv", 0.0011},
		{"vtt", 0.0011},
		{"ssa", 0.011},
		{"dfxp", 0.011},
		{"ttml", 0.021},
		{"xml", 0.021},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			g, ok := GeneratorFor(tt.key)
			if !ok {
				t.Fatalf("no generator for %s", tt.key)
			}
			p, ok := ParserFor(tt.key)
			if !ok {
				t.Fatalf("no parser for %s", tt.key)
			}

			doc, err := g.Generate(roundTripCaptions, meta)
			if err != nil {
				t.Fatalf("failed to generate: %v", err)
			}
			caps, err := p.Parse(doc)
			if err != nil {
				t.Fatalf("failed to parse: %v", err)
			}

			got := Collect(caps)
			opts := cmp.Options{
				cmpopts.EquateApprox(0, tt.tolerance),
				cmpopts.IgnoreFields(Caption{}, "ID"),
			}
			if diff := cmp.Diff(roundTripCaptions, got, opts); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s\ndocument:\n%s", diff, doc)
			}
			if !EquivalentWithin(roundTripCaptions, got, tt.tolerance) {
				t.Error("EquivalentWithin disagrees with the diff")
			}
		})
	}
}

func TestTXTRoundTripKeepsText(t *testing.T) {
	doc, err := TXT{}.Generate(roundTripCaptions, Metadata{})
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	caps, err := TXT{}.Parse(doc)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	var texts []string
	for c := range caps.All() {
		texts = append(texts, c.Text)
	}
	want := []string{"Hello", "**Bold** and *italic*", "Fish & chips", "an hour later"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
}

// astisub is an independent reader; only counts and timings are compared.
func TestGeneratedOutputReadsWithAstisub(t *testing.T) {
	tests := []struct {
		name      string
		generator Generator
		read      func(doc string) (*astisub.Subtitles, error)
	}{
		{
			name:      "srt",
			generator: SRT{LineDelimiter: "\n"},
			read: func(doc string) (*astisub.Subtitles, error) {
				return astisub.ReadFromSRT(strings.NewReader(doc))
			},
		},
		{
			name:      "vtt",
			generator: VTT{},
			read: func(doc string) (*astisub.Subtitles, error) {
				return astisub.ReadFromWebVTT(strings.NewReader(doc))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.generator.Generate(roundTripCaptions, Metadata{})
			if err != nil {
				t.Fatalf("failed to generate: %v", err)
			}

			subs, err := tt.read(doc)
			if err != nil {
				t.Fatalf("astisub rejected output: %v\n%s", err, doc)
			}
			if len(subs.Items) != len(roundTripCaptions) {
				t.Fatalf("expected %d items, got %d", len(roundTripCaptions), len(subs.Items))
			}

			for i, item := range subs.Items {
				c := roundTripCaptions[i]
				if !durationNear(item.StartAt, c.StartTime) || !durationNear(item.EndAt, c.EndTime) {
					t.Errorf("item %d: got %v to %v, want %v to %v",
						i, item.StartAt, item.EndAt, c.StartTime, c.EndTime)
				}
			}
		})
	}
}

func durationNear(d time.Duration, seconds float64) bool {
	diff := d.Seconds() - seconds
	return diff < 0.002 && diff > -0.002
}
