package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/subkit/internal/subtitle"
	"github.com/mgpai22/subkit/internal/translate"
	"github.com/spf13/cobra"
)

// newTranslator is replaced in tests.
var newTranslator = translate.Factory

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [subtitle_file]",
		Short: "Translate subtitles to another language using AI",
		Long: `Translate an existing subtitle file to another language using AI.

Any readable format works. Timing is kept and bold, italic and underline
markers are carried through the translation. The output format defaults to
the input format, or SRT when the input cannot be written back.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  subkit translate video.srt --target-language japanese
  subkit translate video.ass --target-language ja --overlay
  subkit translate video.vtt -l english -t spanish --provider anthropic -o translated.vtt`,
		Args: cobra.ExactArgs(1),
		RunE: runTranslate,
	}

	cmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	cmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	cmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	cmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	cmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	cmd.Flags().
		Int("concurrency", 0, "Number of parallel translation requests")
	cmd.Flags().
		Int("batch-size", 0, "Number of captions per API request")
	cmd.Flags().
		StringP("format", "f", "", "Output subtitle format (defaults to the input format)")
	cmd.Flags().
		String("from", "", "Input format, overriding the file extension")

	_ = cmd.MarkFlagRequired("target-language")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	targetLang, _ := cmd.Flags().GetString("target-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	providerStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	formatKey, _ := cmd.Flags().GetString("format")
	from, _ := cmd.Flags().GetString("from")
	inputLang, _ := cmd.Flags().GetString("language")

	targetLang = strings.TrimSpace(targetLang)
	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" && strings.EqualFold(strings.TrimSpace(inputLang), targetLang) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if providerStr == "" {
		providerStr = cfg.Translate.Provider
	}
	provider, err := translate.ParseProvider(providerStr)
	if err != nil {
		return err
	}

	if apiKey == "" {
		apiKey = provider.APIKey()
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.APIKeyEnv(),
		)
	}

	if model == "" {
		model = cfg.Translate.Model
	}
	if !modelOverride {
		if err := translate.ValidateModel(provider, model); err != nil {
			return fmt.Errorf("%w (use --model-override to bypass)", err)
		}
	}

	if concurrency == 0 {
		concurrency = cfg.Translate.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.Translate.BatchSize
	}
	if concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize < 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	file, err := readCaptions(subtitlePath, from)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(file.Captions) == 0 {
		return fmt.Errorf("subtitle file contains no captions")
	}

	if formatKey == "" {
		formatKey = string(file.Format)
		if _, ok := subtitle.GeneratorFor(formatKey); !ok {
			formatKey = string(subtitle.FormatSRT)
		}
	}
	generator, err := generatorFor(formatKey, false)
	if err != nil {
		return err
	}

	suffix := "." + targetLang
	if overlay {
		suffix += ".overlay"
	}
	out := outputPath(cmd, subtitlePath, suffix, generator.Format())

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", out,
		"provider", provider,
		"target_language", targetLang,
		"input_language", inputLang,
		"overlay", overlay,
		"model", model,
		"captions", len(file.Captions),
	)

	translator, err := newTranslator(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
		Concurrency:    concurrency,
		Overlay:        overlay,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	translated, err := translator.Translate(ctx, file.Captions)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	logger.Infow("Translation complete",
		"captions", len(translated),
	)

	meta := documentMetadata(cmd)
	if !overlay {
		meta.Language = targetLang
	}
	if err := subtitle.WriteFile(out, generator, translated, meta); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(out)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles translated successfully: %s\n", absOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "  Captions: %d\n", len(translated))
	fmt.Fprintf(cmd.OutOrStdout(), "  Target language: %s\n", targetLang)
	if overlay {
		fmt.Fprintf(cmd.OutOrStdout(), "  Mode: bilingual overlay\n")
	}

	return nil
}
