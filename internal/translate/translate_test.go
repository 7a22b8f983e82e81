package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mgpai22/subkit/internal/subtitle"
)

// upperCompleter answers every prompt by upper-casing the input items.
type upperCompleter struct {
	calls  atomic.Int32
	failOn string
}

func (c *upperCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.calls.Add(1)

	_, input, ok := strings.Cut(prompt, "Input JSON:\n")
	if !ok {
		return "", errors.New("prompt has no input")
	}
	input, _, _ = strings.Cut(input, "\n\nOutput the translated")

	var items []TranslationItem
	if err := json.Unmarshal([]byte(input), &items); err != nil {
		return "", err
	}

	for i, item := range items {
		if c.failOn != "" && item.Text == c.failOn {
			return "", fmt.Errorf("refused %q", item.Text)
		}
		items[i].Text = strings.ToUpper(item.Text)
	}
	out, _ := json.Marshal(items)
	return "```json\n" + string(out) + "\n```", nil
}

func testCaptions() []subtitle.Caption {
	return []subtitle.Caption{
		{StartTime: 0, EndTime: 1, Text: "hello", ID: "a"},
		{StartTime: 1, EndTime: 2, Text: "  "},
		{StartTime: 2, EndTime: 3, Text: "*good* bye", Metadata: map[string]string{"k": "v"}},
		{StartTime: 3, EndTime: 4, Text: "again"},
	}
}

func TestTranslate(t *testing.T) {
	c := &upperCompleter{}
	tr := New(c, Options{TargetLanguage: "Shouting", BatchSize: 2})

	in := testCaptions()
	got, err := tr.Translate(context.Background(), in)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}

	want := []subtitle.Caption{
		{StartTime: 0, EndTime: 1, Text: "HELLO", ID: "a"},
		{StartTime: 1, EndTime: 2, Text: "  "},
		{StartTime: 2, EndTime: 3, Text: "*GOOD* BYE", Metadata: map[string]string{"k": "v"}},
		{StartTime: 3, EndTime: 4, Text: "AGAIN"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("captions mismatch (-want +got):\n%s", diff)
	}

	if n := c.calls.Load(); n != 2 {
		t.Errorf("expected 2 batches for 3 texts, got %d", n)
	}
	if in[0].Text != "hello" {
		t.Error("input captions must not be modified")
	}

	got[2].Metadata["k"] = "changed"
	if in[2].Metadata["k"] != "v" {
		t.Error("metadata must be copied")
	}
}

func TestTranslateOverlay(t *testing.T) {
	tr := New(&upperCompleter{}, Options{TargetLanguage: "Shouting", Overlay: true})

	got, err := tr.Translate(context.Background(), testCaptions()[:1])
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if got[0].Text != "HELLO\nhello" {
		t.Errorf("expected translated line above original, got %q", got[0].Text)
	}
}

func TestTranslateBatchFailure(t *testing.T) {
	c := &upperCompleter{failOn: "again"}
	tr := New(c, Options{TargetLanguage: "Shouting", BatchSize: 1, Concurrency: 1})

	_, err := tr.Translate(context.Background(), testCaptions())
	if err == nil || !strings.Contains(err.Error(), `refused "again"`) {
		t.Fatalf("expected batch error, got %v", err)
	}
}

func TestTranslateEmpty(t *testing.T) {
	c := &upperCompleter{}
	tr := New(c, Options{TargetLanguage: "Shouting"})

	got, err := tr.Translate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(got) != 0 || c.calls.Load() != 0 {
		t.Errorf("expected no work, got %d captions and %d calls", len(got), c.calls.Load())
	}
}

func TestFactoryProviders(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Japanese"}

	tests := []struct {
		provider Provider
		check    func(Completer) bool
	}{
		{ProviderGemini, func(c Completer) bool { _, ok := c.(*GeminiCompleter); return ok }},
		{ProviderOpenAI, func(c Completer) bool { _, ok := c.(*OpenAICompleter); return ok }},
		{ProviderAnthropic, func(c Completer) bool { _, ok := c.(*AnthropicCompleter); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			tr, err := Factory(ctx, tt.provider, "fake-key", opts)
			if err != nil {
				t.Fatalf("Factory(%s) returned error: %v", tt.provider, err)
			}
			if !tt.check(tr.completer) {
				t.Errorf("unexpected completer %T", tr.completer)
			}
		})
	}
}

func TestFactoryErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := Factory(ctx, ProviderGemini, "fake-key", Options{}); err == nil {
		t.Error("expected error for missing target language")
	}
	if _, err := Factory(ctx, ProviderGemini, "", Options{TargetLanguage: "French"}); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := Factory(ctx, Provider("unknown"), "fake-key", Options{TargetLanguage: "French"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" OpenAI ")
	if err != nil || p != ProviderOpenAI {
		t.Errorf("ParseProvider() = %q, %v", p, err)
	}
	if p.APIKeyEnv() != "OPENAI_API_KEY" {
		t.Errorf("unexpected env var %q", p.APIKeyEnv())
	}
	if _, err := ParseProvider("mistral"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestValidateModel(t *testing.T) {
	if err := ValidateModel(ProviderGemini, ""); err != nil {
		t.Errorf("empty model should select the default: %v", err)
	}
	if err := ValidateModel(ProviderGemini, "gemini-2.5-pro"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateModel(ProviderOpenAI, "gemini-2.5-pro"); err == nil {
		t.Error("expected error for a model of another provider")
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "English",
		TargetLanguage: "Japanese",
		Prompt:         "Use polite forms.",
	}
	items := []TranslationItem{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Goodbye"},
	}

	prompt := BuildPrompt(opts, items)

	for _, want := range []string{
		"English subtitle texts",
		"to Japanese",
		"Hello world",
		`"index": 0`,
		"**bold**",
		"Additional instructions: Use polite forms.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	prompt := BuildPrompt(Options{TargetLanguage: "Spanish"}, []TranslationItem{{Index: 0, Text: "Hello"}})

	if strings.Contains(prompt, "English") || strings.Contains(prompt, "from ") {
		t.Error("prompt should not contain input language when not specified")
	}
	if !strings.Contains(prompt, "to Spanish") {
		t.Error("prompt should contain target language")
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	tr, err := Factory(ctx, ProviderOpenAI, apiKey, Options{TargetLanguage: "Spanish"})
	if err != nil {
		t.Fatalf("Factory error: %v", err)
	}

	got, err := tr.Translate(ctx, []subtitle.Caption{
		{StartTime: 0, EndTime: 1, Text: "Hello"},
		{StartTime: 1, EndTime: 2, Text: "Goodbye"},
	})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	for i, c := range got {
		if c.Text == "" {
			t.Errorf("caption %d has empty text", i)
		}
	}
}
