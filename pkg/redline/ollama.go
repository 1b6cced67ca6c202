package redline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// similarityCandidateLimit bounds the similarity fallback to avoid burning
// model calls on very large documents.
const similarityCandidateLimit = 10

// OllamaMatcher resolves cross-document correspondence by prompting a model
// served by a local Ollama instance. Alignment tries a direct index prompt
// first and falls back to pairwise similarity scoring with an acceptance
// threshold.
type OllamaMatcher struct {
	llm       *ollama.LLM
	client    *http.Client
	baseURL   string
	model     string
	threshold float64
	log       zerolog.Logger
}

// NewOllamaMatcher builds a matcher over the Ollama server named in cfg.
func NewOllamaMatcher(cfg *Config, logger zerolog.Logger) (*OllamaMatcher, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.OllamaURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}

	return &OllamaMatcher{
		llm:       llm,
		client:    http.DefaultClient,
		baseURL:   strings.TrimRight(cfg.OllamaURL, "/"),
		model:     cfg.Model,
		threshold: cfg.AcceptThreshold,
		log:       logger,
	}, nil
}

// Available checks that the Ollama server is reachable and the configured
// model is loaded.
func (m *OllamaMatcher) Available(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama /api/tags returned %d", resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("failed to decode ollama tags: %w", err)
	}

	want := strings.SplitN(m.model, ":", 2)[0]
	for _, mod := range tags.Models {
		if strings.HasPrefix(mod.Name, want) {
			return nil
		}
	}
	return fmt.Errorf("model %q not loaded on ollama server", m.model)
}

// AlignParagraph implements Matcher.
func (m *OllamaMatcher) AlignParagraph(ctx context.Context, rec *RevisionRecord, candidates []string) (int, error) {
	if len(candidates) == 0 {
		return 0, NewMatchError("align", "no candidate paragraphs", nil)
	}

	// Strategy 1: ask for the matching index directly.
	var list strings.Builder
	for i, para := range candidates {
		fmt.Fprintf(&list, "- %d: %s\n", i, truncateRunes(para, 100))
	}

	alignPrompt := fmt.Sprintf(`Find the target paragraph that corresponds to this source paragraph.

Source paragraph: %q

Target paragraphs:
%s
Respond with only the number (index) of the matching target paragraph.`, rec.OriginalContext, list.String())

	resp, err := m.generate(ctx, alignPrompt)
	if err == nil {
		if idx, ok := firstInt(resp); ok && idx >= 0 && idx < len(candidates) {
			return idx, nil
		}
		m.log.Debug().Str("response", truncateRunes(resp, 80)).Msg("alignment prompt returned no usable index")
	} else {
		m.log.Debug().Err(err).Msg("alignment prompt failed, trying similarity scoring")
	}

	// Strategy 2: score candidates pairwise and keep the best one above the
	// acceptance threshold.
	best, bestScore := -1, -1.0
	limit := len(candidates)
	if limit > similarityCandidateLimit {
		limit = similarityCandidateLimit
	}
	for i := 0; i < limit; i++ {
		scorePrompt := fmt.Sprintf(`Rate the similarity between these two paragraphs on a scale of 0-10:

Source: %q
Target: %q

Respond with only a number from 0 to 10.`, truncateRunes(rec.OriginalContext, 200), truncateRunes(candidates[i], 200))

		resp, err := m.generate(ctx, scorePrompt)
		if err != nil {
			if ctx.Err() != nil {
				return 0, NewMatchError("align", "matcher call timed out", ctx.Err())
			}
			continue
		}
		if score, ok := firstNumber(resp); ok && score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || bestScore <= m.threshold {
		return 0, NewMatchError("align", fmt.Sprintf("no candidate above threshold %.1f (best %.1f)", m.threshold, bestScore), nil)
	}
	return best, nil
}

// ResolveInsertion implements Matcher: it translates the inserted text and
// asks for the character position inside the target paragraph where it
// belongs. A failed position query falls back to the end of the paragraph.
func (m *OllamaMatcher) ResolveInsertion(ctx context.Context, rec *RevisionRecord, targetText string) (string, int, error) {
	translatePrompt := fmt.Sprintf(`Translate this text for the target document:

Source text: %q

Respond with only the translation.`, rec.Text)

	text, err := m.generate(ctx, translatePrompt)
	if err != nil {
		return "", 0, NewMatchError("translate", "translation failed", err)
	}
	if text == "" {
		return "", 0, NewMatchError("translate", "empty translation", nil)
	}

	total := utf8.RuneCountInString(targetText)
	positionPrompt := fmt.Sprintf(`Determine the best character position to insert this text:

Target paragraph: %q
Text to insert: %q
Context: this corresponds to an insertion tracked in the source version.

Respond with only a number representing the character position (0 to %d).`, targetText, text, total)

	offset := total
	if resp, err := m.generate(ctx, positionPrompt); err == nil {
		if pos, ok := firstInt(resp); ok {
			if pos < 0 {
				pos = 0
			}
			if pos > total {
				pos = total
			}
			offset = pos
		}
	} else {
		m.log.Debug().Err(err).Msg("position prompt failed, defaulting to paragraph end")
	}

	return text, offset, nil
}

// ResolveDeletion implements Matcher: it identifies the exact substring of
// the target paragraph corresponding to the record's deleted text.
func (m *OllamaMatcher) ResolveDeletion(ctx context.Context, rec *RevisionRecord, targetText string) (string, error) {
	prompt := fmt.Sprintf(`Identify the exact text that should be deleted from the target paragraph, based on the deletion tracked in the source version:

Target paragraph: %q
Source text that was deleted: %q

Respond with only the exact target text that corresponds to the deleted source text.`, targetText, rec.Text)

	target, err := m.generate(ctx, prompt)
	if err != nil {
		return "", NewMatchError("identify", "deletion target identification failed", err)
	}
	return target, nil
}

func (m *OllamaMatcher) generate(ctx context.Context, prompt string) (string, error) {
	enhanced := "You are a professional document processing assistant. Follow instructions precisely and respond only with the requested information.\n\n" +
		prompt +
		"\n\nImportant: Respond only with the exact text requested, no additional commentary."

	out, err := llms.GenerateFromSinglePrompt(ctx, m.llm, enhanced,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(500),
	)
	if err != nil {
		return "", err
	}
	return cleanResponse(out), nil
}

var (
	intPattern    = regexp.MustCompile(`-?\d+`)
	numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)
)

// cleanResponse strips the artifacts models commonly wrap answers in.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}

// firstInt extracts the first integer in a model response.
func firstInt(s string) (int, bool) {
	match := intPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// firstNumber extracts the first decimal number in a model response.
func firstNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// truncateRunes shortens s to at most n characters, appending an ellipsis
// when anything was cut.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
