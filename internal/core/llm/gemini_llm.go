package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/markdave123-py/tokenharvest/internal/core"
)

var _ core.Annotator = (*GeminiAnnotator)(nil)

// GeminiAnnotator asks a Gemini model to tokenize and tag text.
type GeminiAnnotator struct {
	client    *genai.Client
	modelName string
	lang      core.Language
}

func NewGeminiAnnotator(ctx context.Context, apiKey, modelName string, lang core.Language) (*GeminiAnnotator, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if apiKey == "" {
		return nil, &core.ModelUnavailableError{
			Model:       modelName,
			Remediation: "set GEMINI_API_KEY in the environment or in a .env file",
		}
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &core.ModelUnavailableError{
			Model:       modelName,
			Remediation: "check GEMINI_API_KEY and that the model name exists for your key",
			Err:         err,
		}
	}
	return &GeminiAnnotator{client: cl, modelName: modelName, lang: lang}, nil
}

// Factory builds annotators backed by standardModel, or by accurateModel for
// the accurate tier.
func Factory(apiKey, standardModel, accurateModel string) core.AnnotatorFactory {
	return func(ctx context.Context, lang core.Language, tier core.Tier) (core.Annotator, error) {
		model := standardModel
		if tier == core.TierAccurate {
			model = accurateModel
		}
		ann, err := NewGeminiAnnotator(ctx, apiKey, model, lang)
		if err != nil {
			return nil, err
		}
		return ann, nil
	}
}

func (g *GeminiAnnotator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiAnnotator) Annotate(ctx context.Context, text string) ([]core.TaggedToken, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	m := g.client.GenerativeModel(g.modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt(g.lang))},
	}
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)

	resp, err := m.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return parseAnnotations(b.String())
}

func systemPrompt(lang core.Language) string {
	vocab := core.Tags()
	tags := make([]string, len(vocab))
	for i, t := range vocab {
		tags[i] = string(t)
	}
	return fmt.Sprintf(
		"You are a part-of-speech tagger for %s text. Split the user's text into tokens, "+
			"keeping each token exactly as written, and tag every token with one of: %s. "+
			`Reply with a JSON array of {"text": string, "tag": string} objects in text order and nothing else.`,
		lang.Name, strings.Join(tags, ", "),
	)
}

// parseAnnotations decodes the model reply. Markdown code fences around the
// JSON are tolerated and unknown tags become X.
func parseAnnotations(raw string) ([]core.TaggedToken, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var items []struct {
		Text string `json:"text"`
		Tag  string `json:"tag"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("gemini: decode annotations: %w", err)
	}

	out := make([]core.TaggedToken, 0, len(items))
	for _, it := range items {
		if it.Text == "" {
			continue
		}
		out = append(out, core.TaggedToken{Text: it.Text, Tag: core.NormalizeTag(it.Tag)})
	}
	return out, nil
}
