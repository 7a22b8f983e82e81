package subtitle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVTTParse(t *testing.T) {
	content := "\ufeffWEBVTT\nKind: captions\nLanguage: en\n\n" +
		"NOTE this is a comment\nspanning lines\n\n" +
		"STYLE\n::cue { color: yellow }\n\n" +
		"intro\n00:00:01.000 --> 00:00:04.000 align:start\n<v Bob>Hello</v> <b>world</b>\n\n" +
		"00:05.500 --> 00:08.250\nShort timing\nsecond line\n\n" +
		"3\r\n01:00:00.000 --> 01:00:01.000\r\nLast &amp; final\r\n"

	caps, err := VTT{}.Parse(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Caption{
		{StartTime: 1, EndTime: 4, Text: "Hello **world**", ID: "intro"},
		{StartTime: 5.5, EndTime: 8.25, Text: "Short timing\nsecond line"},
		{StartTime: 3600, EndTime: 3601, Text: "Last & final", ID: "3"},
	}
	if diff := cmp.Diff(want, Collect(caps)); diff != "" {
		t.Errorf("captions mismatch (-want +got):\n%s", diff)
	}
	if caps.Len() != 3 {
		t.Errorf("Len() = %d, want 3", caps.Len())
	}
}

func TestVTTGenerate(t *testing.T) {
	captions := []Caption{
		{StartTime: 1, EndTime: 2.5, Text: "Hello **world**"},
		{StartTime: NoTime, EndTime: 3, Text: "skipped"},
		{StartTime: 3, EndTime: 4, Text: "a < b", ID: "cue-two"},
	}

	got, err := VTT{}.Generate(captions, Metadata{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "WEBVTT\n\n" +
		"1\n00:00:01.000 --> 00:00:02.500\nHello <b>world</b>\n\n" +
		"cue-two\n00:00:03.000 --> 00:00:04.000\na &lt; b\n\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
