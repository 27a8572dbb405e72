package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHistory_MapsRoles(t *testing.T) {
	h := toHistory([]Message{
		{Role: "user", Content: "Paris in June"},
		{Role: "assistant", Content: "Where from?"},
	})
	require.Len(t, h, 2)
	assert.Equal(t, "user", h[0].Role)
	assert.Equal(t, "model", h[1].Role)
	assert.Equal(t, genai.Text("Where from?"), h[1].Parts[0])
}

func TestTextOf(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Day 1: "),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("Louvre"),
			}},
		}},
	}
	assert.Equal(t, "Day 1: Louvre", textOf(resp))
	assert.Equal(t, "", textOf(nil))
	assert.Equal(t, "", textOf(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", textOf(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))
}

func TestGenerate_NoMessages(t *testing.T) {
	c := &sdkClient{model: defaultModel}
	_, err := c.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no messages")
}
