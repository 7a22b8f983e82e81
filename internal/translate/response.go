package translate

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")
	escapeRegex    = regexp.MustCompile(`(?s)\\(.)`)
)

// parseResponse extracts one translation per item from a model answer. Every
// item index must come back exactly once.
func parseResponse(text string, items []TranslationItem) ([]TranslationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	text = cleanJSONResponse(text)

	results, err := extractTranslationResults(text)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(text, 200),
		)
	}

	if len(results) != len(items) {
		return nil, fmt.Errorf("expected %d results, got %d", len(items), len(results))
	}

	pending := make(map[int]struct{}, len(items))
	for _, item := range items {
		pending[item.Index] = struct{}{}
	}
	for _, r := range results {
		if _, ok := pending[r.Index]; !ok {
			return nil, fmt.Errorf("unexpected result index %d", r.Index)
		}
		delete(pending, r.Index)
	}

	return results, nil
}

// cleanJSONResponse drops markdown code fences around the answer.
func cleanJSONResponse(s string) string {
	s = jsonBlockRegex.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(strings.ReplaceAll(s, "```", ""))
}

// fixInvalidEscapes doubles the backslash of escapes JSON does not know,
// such as the SSA line break \N, so the literal survives decoding.
func fixInvalidEscapes(s string) string {
	return escapeRegex.ReplaceAllStringFunc(s, func(esc string) string {
		if strings.ContainsRune(`"\/bfnrtu`, rune(esc[1])) {
			return esc
		}
		return `\` + esc
	})
}

// extractTranslationResults decodes the first JSON value in text that holds
// translations, either as a bare array or wrapped in an object.
func extractTranslationResults(text string) ([]TranslationResult, error) {
	text = fixInvalidEscapes(text)

	for i := strings.IndexAny(text, "[{"); i >= 0; {
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err == nil {
			if results, ok := tryExtractResults(raw); ok {
				return results, nil
			}
		}

		next := strings.IndexAny(text[i+1:], "[{")
		if next < 0 {
			break
		}
		i += next + 1
	}
	return nil, fmt.Errorf("no valid translation JSON found in response")
}

// object fields that models commonly wrap the array in, tried first
var wrapperKeys = []string{"results", "translations", "data", "items"}

func tryExtractResults(raw json.RawMessage) ([]TranslationResult, bool) {
	candidates := []json.RawMessage{raw}

	var wrapper map[string]json.RawMessage
	if json.Unmarshal(raw, &wrapper) == nil {
		for _, key := range wrapperKeys {
			if field, ok := wrapper[key]; ok {
				candidates = append(candidates, field)
				delete(wrapper, key)
			}
		}
		for _, key := range slices.Sorted(maps.Keys(wrapper)) {
			candidates = append(candidates, wrapper[key])
		}
	}

	for _, c := range candidates {
		var results []TranslationResult
		if json.Unmarshal(c, &results) == nil && validateResults(results) {
			return results, true
		}
	}
	return nil, false
}

// validateResults reports whether at least one result carries text.
func validateResults(results []TranslationResult) bool {
	return slices.ContainsFunc(results, func(r TranslationResult) bool {
		return r.Text != ""
	})
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
