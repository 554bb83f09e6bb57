package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ModelName is the Gemini model GrindBot talks to.
const ModelName = "gemini-2.5-flash"

// GeminiClient opens chat sessions against the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: ModelName}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// StartChat opens a multi-turn session primed with the given system instruction.
func (g *GeminiClient) StartChat(instruction string) Session {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(instruction))
	return &geminiSession{chat: model.StartChat()}
}

type geminiSession struct {
	chat *genai.ChatSession
}

// SendMessage appends text to the session history and returns the reply text.
// An empty string means the model produced no text.
func (s *geminiSession) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
