package subtitle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSRTParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Caption
	}{
		{
			name:  "single caption",
			input: "1\n00:00:01,000 --> 00:00:02,500\nHello\n\n",
			want:  []Caption{{StartTime: 1.0, EndTime: 2.5, Text: "Hello"}},
		},
		{
			name: "crlf and missing final blank line",
			input: "1\r\n00:00:01,000 --> 00:00:04,000\r\nHello, world!\r\n\r\n" +
				"2\r\n00:00:05,500 --> 00:00:08,250\r\nThis is a test.\r\nWith multiple lines.\r\n\r\n" +
				"3\r\n00:00:10,000 --> 00:00:12,500\r\nFinal subtitle.",
			want: []Caption{
				{StartTime: 1, EndTime: 4, Text: "Hello, world!"},
				{StartTime: 5.5, EndTime: 8.25, Text: "This is a test.\nWith multiple lines."},
				{StartTime: 10, EndTime: 12.5, Text: "Final subtitle."},
			},
		},
		{
			name: "empty text block",
			input: "1\n00:00:01,000 --> 00:00:02,000\n\n" +
				"2\n00:00:03,000 --> 00:00:04,000\nB\n\n",
			want: []Caption{
				{StartTime: 1, EndTime: 2, Text: ""},
				{StartTime: 3, EndTime: 4, Text: "B"},
			},
		},
		{
			name:  "tags and override blocks",
			input: "1\n00:00:01,000 --> 00:00:02,000\n{\\an8}<i>Hi</i> <font color=\"red\">there</font> &amp; you\n\n",
			want:  []Caption{{StartTime: 1, EndTime: 2, Text: "*Hi* there & you"}},
		},
		{
			name:  "fraction without digits",
			input: "1\n00:00:01 --> 00:00:02,\nNo millis\n\n",
			want:  []Caption{{StartTime: 1, EndTime: 2, Text: "No millis"}},
		},
		{
			name:  "block without timing is skipped",
			input: "1\nnot a time\nlost\n\n2\n00:00:03,000 --> 00:00:04,000\nkept\n\n",
			want:  []Caption{{StartTime: 3, EndTime: 4, Text: "kept"}},
		},
		{
			name:  "corrupt hour field",
			input: "1\n3000000000000000:00:00,000 --> 3000000000000000:00:01,000\nbroken\n\n",
			want:  []Caption{{StartTime: NoTime, EndTime: NoTime, Text: "broken"}},
		},
		{
			name:  "empty document",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, err := SRT{}.Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if caps.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", caps.Len(), len(tt.want))
			}
			if diff := cmp.Diff(tt.want, Collect(caps)); diff != "" {
				t.Errorf("captions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSRTParseIsReiterable(t *testing.T) {
	caps, err := SRT{}.Parse("1\n00:00:01,000 --> 00:00:02,000\nA\n\n2\n00:00:03,000 --> 00:00:04,000\nB\n\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := Collect(caps)
	second := Collect(caps)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second iteration differs (-first +second):\n%s", diff)
	}

	// stopping early must not disturb later iterations
	for range caps.All() {
		break
	}
	if got := len(Collect(caps)); got != 2 {
		t.Errorf("expected 2 captions after early stop, got %d", got)
	}
}

func TestSRTGenerate(t *testing.T) {
	tests := []struct {
		name      string
		generator SRT
		captions  []Caption
		want      string
	}{
		{
			name:      "lf delimiter",
			generator: SRT{LineDelimiter: "\n"},
			captions:  []Caption{{StartTime: 0, EndTime: 1.234, Text: "Hi"}},
			want:      "1\n00:00:00,000 --> 00:00:01,234\nHi\n\n",
		},
		{
			name:      "crlf by default",
			generator: SRT{},
			captions:  []Caption{{StartTime: 0, EndTime: 1.234, Text: "Hi"}},
			want:      "1\r\n00:00:00,000 --> 00:00:01,234\r\nHi\r\n\r\n",
		},
		{
			name:      "markup entities and trimming",
			generator: SRT{LineDelimiter: "\n"},
			captions: []Caption{
				{StartTime: 1, EndTime: 2, Text: "  **Fish** &amp; *chips*\nsecond line  "},
			},
			want: "1\n00:00:01,000 --> 00:00:02,000\n<b>Fish</b> & <i>chips</i>\nsecond line\n\n",
		},
		{
			name:      "unrenderable captions are skipped without consuming an index",
			generator: SRT{LineDelimiter: "\n"},
			captions: []Caption{
				{StartTime: NoTime, EndTime: 1, Text: "no start"},
				{StartTime: 1, EndTime: 2, Text: "kept"},
				{StartTime: 2, EndTime: NoTime, Text: "no end"},
				{StartTime: 3, EndTime: 4, Text: "also kept"},
			},
			want: "1\n00:00:01,000 --> 00:00:02,000\nkept\n\n" +
				"2\n00:00:03,000 --> 00:00:04,000\nalso kept\n\n",
		},
		{
			name:      "empty input",
			generator: SRT{},
			captions:  nil,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.generator.Generate(tt.captions, Metadata{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGeneratorsNeverEmitSentinelTiming(t *testing.T) {
	captions := []Caption{
		{StartTime: NoTime, EndTime: NoTime, Text: "untimed"},
		{StartTime: 1, EndTime: NoTime, Text: "half timed"},
	}
	meta := Metadata{Title: "t", Language: "en"}

	for _, key := range GeneratorKeys() {
		if key == "txt" {
			continue
		}
		t.Run(key, func(t *testing.T) {
			g, _ := GeneratorFor(key)
			out, err := g.Generate(captions, meta)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(out, "untimed") || strings.Contains(out, "half timed") {
				t.Errorf("unrenderable caption emitted:\n%s", out)
			}
		})
	}
}
