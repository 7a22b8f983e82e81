package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/mgpai22/subkit/internal/subtitle"
	"golang.org/x/sync/errgroup"
)

// single caption text to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated caption text
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Completer sends one prompt to a language model and returns its text answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

var defaultModels = map[Provider]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-5-mini",
	ProviderAnthropic: string(anthropic.ModelClaudeHaiku4_5),
}

var knownModels = map[Provider][]string{
	ProviderGemini: {
		"gemini-3-pro-preview", "gemini-3-flash-preview",
		"gemini-2.5-pro", "gemini-2.5-flash", "gemini-2.5-flash-lite",
	},
	ProviderOpenAI: {
		"o1", "o3-mini", "o1-pro", "o3",
		"gpt-5", "gpt-5-nano", "gpt-5-mini", "gpt-5-pro",
		"gpt-5.1", "gpt-5.2", "gpt-5.2-pro",
	},
	ProviderAnthropic: {
		string(anthropic.ModelClaudeHaiku4_5),
		string(anthropic.ModelClaudeSonnet4_5),
		string(anthropic.ModelClaudeOpus4_5),
	},
}

// environment variable holding each provider's API key
var apiKeyEnv = map[Provider]string{
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := apiKeyEnv[p]; !ok {
		return "", fmt.Errorf("unsupported translation provider: %s", name)
	}
	return p, nil
}

// APIKeyEnv names the environment variable read for the provider's key.
func (p Provider) APIKeyEnv() string {
	if env, ok := apiKeyEnv[p]; ok {
		return env
	}
	return "API_KEY"
}

// APIKey returns the provider's key from the environment.
func (p Provider) APIKey() string {
	return os.Getenv(p.APIKeyEnv())
}

// ValidateModel rejects model names the provider is not known to serve. An
// empty model selects the provider default.
func ValidateModel(p Provider, model string) error {
	if model == "" || slices.Contains(knownModels[p], model) {
		return nil
	}
	return fmt.Errorf(
		"unsupported %s model %q: valid models are %s",
		p, model, strings.Join(knownModels[p], ", "),
	)
}

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // captions per API request (default 50)
	Concurrency    int // parallel requests (default 3)
	Overlay        bool
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return DefaultConcurrency
}

// Translator translates caption text in batches through a Completer.
type Translator struct {
	completer Completer
	options   Options
}

func New(c Completer, opts Options) *Translator {
	return &Translator{completer: c, options: opts}
}

// creates a Translator backed by the given provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (*Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = defaultModels[provider]
	}

	var (
		c   Completer
		err error
	)
	switch provider {
	case ProviderGemini:
		c, err = NewGeminiCompleter(ctx, apiKey, model)
	case ProviderOpenAI:
		c = NewOpenAICompleter(apiKey, model)
	case ProviderAnthropic:
		c = NewAnthropicCompleter(apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	return New(c, opts), nil
}

// Translate returns a copy of captions with their text translated. Timing,
// IDs and metadata are kept; captions with blank text are not sent. Batches
// run concurrently and the first failing batch cancels the rest.
func (t *Translator) Translate(
	ctx context.Context,
	captions []subtitle.Caption,
) ([]subtitle.Caption, error) {
	if t.options.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	var items []TranslationItem
	for i, c := range captions {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		items = append(items, TranslationItem{Index: i, Text: c.Text})
	}

	batches := slices.Collect(slices.Chunk(items, t.options.batchSize()))
	translated := make([][]TranslationResult, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.options.concurrency())
	for i, batch := range batches {
		g.Go(func() error {
			results, err := t.translateBatch(ctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			translated[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]subtitle.Caption, len(captions))
	for i, c := range captions {
		c.Metadata = maps.Clone(c.Metadata)
		out[i] = c
	}
	for _, results := range translated {
		for _, r := range results {
			text := strings.TrimSpace(r.Text)
			if t.options.Overlay {
				text += "\n" + captions[r.Index].Text
			}
			out[r.Index].Text = text
		}
	}

	return out, nil
}

func (t *Translator) translateBatch(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	prompt := BuildPrompt(t.options, items)

	response, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	return parseResponse(response, items)
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle texts to %s.\n\n",
			opts.InputLanguage,
			opts.TargetLanguage,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle texts to %s.\n\n",
			opts.TargetLanguage,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString(
		"1. Translate ONLY the text content, preserving the meaning.\n",
	)
	sb.WriteString(
		"2. Texts mark **bold**, *italic* and _underlined_ words. Keep the markers around the translated words.\n",
	)
	sb.WriteString("3. Preserve line breaks (\\n) where the sentence allows.\n")
	sb.WriteString("4. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("5. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString(
		"6. The 'index' values must match the input indices exactly.\n",
	)
	sb.WriteString("7. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		sb.WriteString(
			fmt.Sprintf("Additional instructions: %s\n\n", opts.Prompt),
		)
	}

	sb.WriteString("Input JSON:\n")

	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)

	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
