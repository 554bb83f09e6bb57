// Package assistant bridges the chat widget to the Gemini text-generation API.
// Failures never reach the caller: every path ends in a reply string.
package assistant

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Session is one multi-turn conversation with the model.
type Session interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// Generator opens sessions. *GeminiClient is the production implementation.
type Generator interface {
	StartChat(instruction string) Session
}

// Conversation is the caller-owned context for one chat. The zero value is
// ready to use; its session is opened on the first send.
type Conversation struct {
	mu      sync.Mutex
	session Session
	turns   int
}

// Turns is the number of messages forwarded to the model so far.
func (c *Conversation) Turns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turns
}

// Bridge forwards user text to the model.
type Bridge struct {
	apiKey    string
	generator Generator
	logger    *zap.Logger
}

// NewBridge returns a Bridge. With an empty apiKey or a nil generator every
// send answers OfflineReply without touching the transport.
func NewBridge(apiKey string, generator Generator, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{apiKey: apiKey, generator: generator, logger: logger}
}

// Online reports whether sends will reach the model.
func (b *Bridge) Online() bool {
	return b.apiKey != "" && b.generator != nil
}

// Initialize returns conv's session, opening it on first use. It returns nil
// while the bridge is offline.
func (b *Bridge) Initialize(conv *Conversation) Session {
	if !b.Online() {
		return nil
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return b.initializeLocked(conv)
}

func (b *Bridge) initializeLocked(conv *Conversation) Session {
	if conv.session == nil {
		conv.session = b.generator.StartChat(SystemInstruction)
		b.logger.Debug("chat session opened", zap.String("model", ModelName))
	}
	return conv.session
}

// Send forwards text on conv and returns the model's reply or a fallback.
// Sends on the same conversation are serialised.
func (b *Bridge) Send(ctx context.Context, conv *Conversation, text string) string {
	if !b.Online() {
		return OfflineReply
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return BlankInputReply
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	session := b.initializeLocked(conv)
	conv.turns++
	reply, err := session.SendMessage(ctx, text)
	if err != nil {
		b.logger.Error("gemini error", zap.Error(err), zap.Int("turn", conv.turns))
		return ConnectionLostReply
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}
