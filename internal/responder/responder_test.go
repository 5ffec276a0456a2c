package responder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text   string
	err    error
	model  string
	prompt string
	system string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.prompt = contents[0].Parts[0].Text
	f.system = config.SystemInstruction.Parts[0].Text
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func TestRespond(t *testing.T) {
	generator := &fakeGenerator{text: "  Check the pinned thread.  "}
	responder := New(generator, "")

	response, err := responder.Respond(context.Background(), "Hiring?", "Where do I post jobs")
	require.NoError(t, err)

	assert.Equal(t, "Check the pinned thread.", response)
	assert.Equal(t, "gemini-2.0-flash", generator.model)
	assert.Equal(t, "Title: Hiring?\n\nContent: Where do I post jobs ", generator.prompt)
	assert.Equal(t, systemPrompt, generator.system)
}

func TestRespondErrors(t *testing.T) {
	_, err := New(&fakeGenerator{err: errors.New("quota")}, "m").Respond(context.Background(), "t", "c")
	assert.Error(t, err)

	_, err = New(&fakeGenerator{text: "   "}, "m").Respond(context.Background(), "t", "c")
	assert.Error(t, err)
}

func TestNewGenAIResponderRequiresKey(t *testing.T) {
	_, err := NewGenAIResponder(context.Background(), "", "")
	assert.Error(t, err)
}
