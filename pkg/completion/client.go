package completion

import (
	"context"
	_ "embed"
	"strings"

	"github.com/kaiwa-dev/kaiwa/pkg/adapter"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

//go:embed prompt/suggest.md
var suggestPromptRaw string

const (
	replyTemperature       = 0.7
	replyMaxOutputTokens   = 1000
	suggestTemperature     = 0.65
	suggestMaxOutputTokens = 140
)

// Result is one completion turn: the assistant reply plus up to three
// follow-up questions. An empty suggestion list is a degraded result,
// not an error.
type Result struct {
	Reply       string
	Suggestions []string
}

// Client generates the next assistant turn for an ordered message context
type Client interface {
	Complete(ctx context.Context, msgs []*model.Message) (*Result, error)
}

type geminiCompletion struct {
	gemini       adapter.Gemini
	systemPrompt string
}

type Option func(*geminiCompletion)

func WithSystemPrompt(prompt string) Option {
	return func(c *geminiCompletion) {
		c.systemPrompt = prompt
	}
}

// NewGemini creates a completion client backed by a Gemini adapter
func NewGemini(gemini adapter.Gemini, opts ...Option) Client {
	c := &geminiCompletion{gemini: gemini}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete issues two requests: one for the reply over the full context,
// one for follow-up suggestions over the context plus the fresh reply.
// Only transport failures of either request are errors; malformed
// suggestion text degrades through the lenient parser.
func (c *geminiCompletion) Complete(ctx context.Context, msgs []*model.Message) (*Result, error) {
	contents := toContents(msgs)

	replyConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](replyTemperature),
		MaxOutputTokens: replyMaxOutputTokens,
	}
	if c.systemPrompt != "" {
		replyConfig.SystemInstruction = genai.NewContentFromText(c.systemPrompt, "")
	}

	replyResp, err := c.gemini.GenerateContent(ctx, contents, replyConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate reply")
	}
	reply := responseText(replyResp)

	suggestContents := append(append([]*genai.Content{}, contents...),
		genai.NewContentFromText(reply, genai.RoleModel),
		genai.NewContentFromText(suggestPromptRaw, genai.RoleUser),
	)
	suggestConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](suggestTemperature),
		MaxOutputTokens: suggestMaxOutputTokens,
	}

	suggestResp, err := c.gemini.GenerateContent(ctx, suggestContents, suggestConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate suggestions")
	}

	return &Result{
		Reply:       reply,
		Suggestions: ParseSuggestions(responseText(suggestResp)),
	}, nil
}

func toContents(msgs []*model.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == model.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
