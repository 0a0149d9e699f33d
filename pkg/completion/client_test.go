package completion_test

import (
	"context"
	"testing"

	"github.com/kaiwa-dev/kaiwa/pkg/completion"
	"github.com/kaiwa-dev/kaiwa/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

// mockGemini returns canned responses in order and records requests
type mockGemini struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	requests  [][]*genai.Content
	configs   []*genai.GenerateContentConfig
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	call := len(m.requests)
	m.requests = append(m.requests, contents)
	m.configs = append(m.configs, config)

	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}
	return m.responses[call], nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func contentText(c *genai.Content) string {
	var out string
	for _, p := range c.Parts {
		out += p.Text
	}
	return out
}

func TestCompleteReturnsReplyAndSuggestions(t *testing.T) {
	gemini := &mockGemini{
		responses: []*genai.GenerateContentResponse{
			textResponse("Kyoto in autumn is lovely."),
			textResponse(`["When is peak foliage?","Where to stay?","What about food?"]`),
		},
	}
	client := completion.NewGemini(gemini)

	msgs := []*model.Message{
		{Role: model.RoleUser, Content: "Where should I go in July?"},
	}
	result, err := client.Complete(context.Background(), msgs)
	gt.NoError(t, err)
	gt.Equal(t, result.Reply, "Kyoto in autumn is lovely.")
	gt.A(t, result.Suggestions).Length(3)
	gt.Equal(t, result.Suggestions[0], "When is peak foliage?")
}

func TestCompleteIssuesTwoRequests(t *testing.T) {
	gemini := &mockGemini{
		responses: []*genai.GenerateContentResponse{
			textResponse("reply text"),
			textResponse("1. A?\n2. B?\n3. C?"),
		},
	}
	client := completion.NewGemini(gemini)

	msgs := []*model.Message{
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
		{Role: model.RoleUser, Content: "tell me more"},
	}
	_, err := client.Complete(context.Background(), msgs)
	gt.NoError(t, err)

	gt.A(t, gemini.requests).Length(2)

	// First request is the bare context with assistant turns as model role
	first := gemini.requests[0]
	gt.A(t, first).Length(3)
	gt.Equal(t, first[1].Role, string(genai.RoleModel))

	// Second request appends the fresh reply and the suggestion instruction
	second := gemini.requests[1]
	gt.A(t, second).Length(5)
	gt.Equal(t, contentText(second[3]), "reply text")
	gt.S(t, contentText(second[4])).Contains("suggest 3")
}

func TestCompleteReplyTransportError(t *testing.T) {
	gemini := &mockGemini{
		errs: []error{goerr.New("upstream down")},
	}
	client := completion.NewGemini(gemini)

	_, err := client.Complete(context.Background(), []*model.Message{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.Error(t, err)
	gt.A(t, gemini.requests).Length(1)
}

func TestCompleteSuggestionTransportError(t *testing.T) {
	gemini := &mockGemini{
		responses: []*genai.GenerateContentResponse{textResponse("reply"), nil},
		errs:      []error{nil, goerr.New("upstream down")},
	}
	client := completion.NewGemini(gemini)

	_, err := client.Complete(context.Background(), []*model.Message{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.Error(t, err)
}

func TestCompleteMalformedSuggestionsDegrade(t *testing.T) {
	gemini := &mockGemini{
		responses: []*genai.GenerateContentResponse{
			textResponse("reply"),
			textResponse("I cannot think of anything."),
		},
	}
	client := completion.NewGemini(gemini)

	result, err := client.Complete(context.Background(), []*model.Message{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.NoError(t, err)
	gt.Equal(t, result.Reply, "reply")
	gt.A(t, result.Suggestions).Length(0)
}

func TestCompleteWithSystemPrompt(t *testing.T) {
	gemini := &mockGemini{
		responses: []*genai.GenerateContentResponse{
			textResponse("reply"),
			textResponse("[]"),
		},
	}
	client := completion.NewGemini(gemini, completion.WithSystemPrompt("You are terse."))

	_, err := client.Complete(context.Background(), []*model.Message{
		{Role: model.RoleUser, Content: "hello"},
	})
	gt.NoError(t, err)

	gt.V(t, gemini.configs[0].SystemInstruction).NotNil()
	gt.S(t, contentText(gemini.configs[0].SystemInstruction)).Contains("terse")
	// The suggestion request carries no system instruction
	gt.V(t, gemini.configs[1].SystemInstruction).Nil()
}
