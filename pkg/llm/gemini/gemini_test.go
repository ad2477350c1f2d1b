package gemini

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barekit/orbitai/pkg/llm"
)

func TestFlatten(t *testing.T) {
	got := Flatten([]llm.Message{
		llm.System("be brief"),
		llm.User("gaming"),
		llm.Assistant("Great!"),
		{Role: "other", Content: "x"},
	})
	want := "[System]: be brief\n\n[User]: gaming\n\n[Assistant]: Great!\n\n[User]: x\n\n[Assistant]:"
	assert.Equal(t, want, got)
	assert.Equal(t, "[Assistant]:", Flatten(nil))
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.Error(t, err)
}

func TestProvider_Gemini_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping Gemini integration test: GEMINI_API_KEY not set")
	}

	p, err := New(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"))
	require.NoError(t, err)
	reply, err := p.Chat(context.Background(), []llm.Message{llm.User("Reply with just the word ready.")})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Content)
}
