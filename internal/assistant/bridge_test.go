package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSession struct {
	mu       sync.Mutex
	received []string
	reply    string
	err      error
}

func (s *fakeSession) SendMessage(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, text)
	return s.reply, s.err
}

type fakeGenerator struct {
	started      int
	instructions []string
	session      *fakeSession
}

func (g *fakeGenerator) StartChat(instruction string) Session {
	g.started++
	g.instructions = append(g.instructions, instruction)
	return g.session
}

func TestSendWithoutCredentialSkipsTransport(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{session: &fakeSession{reply: "hi"}}
	b := NewBridge("", gen, nil)
	conv := &Conversation{}

	require.False(t, b.Online())
	require.Equal(t, OfflineReply, b.Send(context.Background(), conv, "hello"))
	require.Equal(t, 0, gen.started)
	require.Empty(t, gen.session.received)
	require.Equal(t, 0, conv.Turns())
}

func TestSendWithoutGeneratorIsOffline(t *testing.T) {
	t.Parallel()

	b := NewBridge("key", nil, nil)
	require.Equal(t, OfflineReply, b.Send(context.Background(), &Conversation{}, "hello"))
}

func TestSendReusesConversationSession(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{session: &fakeSession{reply: "Let's get it 🔥"}}
	b := NewBridge("key", gen, nil)
	conv := &Conversation{}

	require.Equal(t, "Let's get it 🔥", b.Send(context.Background(), conv, "how do I join?"))
	require.Equal(t, "Let's get it 🔥", b.Send(context.Background(), conv, "  and pricing?  "))

	require.Equal(t, 1, gen.started, "session is opened once per conversation")
	require.Equal(t, []string{"how do I join?", "and pricing?"}, gen.session.received)
	require.Equal(t, 2, conv.Turns())
	require.Same(t, b.Initialize(conv), b.Initialize(conv))
	require.Equal(t, 1, gen.started)

	instruction := gen.instructions[0]
	for _, want := range []string{"GrindBot", "The Come Up (Free)", "The Hustle ($49)", "The Mogul ($149)", "Charlotte"} {
		require.True(t, strings.Contains(instruction, want), "instruction missing %q", want)
	}
}

func TestSendSeparateConversations(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{session: &fakeSession{reply: "ok"}}
	b := NewBridge("key", gen, nil)
	b.Send(context.Background(), &Conversation{}, "a")
	b.Send(context.Background(), &Conversation{}, "b")
	require.Equal(t, 2, gen.started)
}

func TestSendEmptyReply(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{session: &fakeSession{reply: "  "}}
	b := NewBridge("key", gen, nil)
	require.Equal(t, EmptyReply, b.Send(context.Background(), &Conversation{}, "hello"))
}

func TestSendBlankInput(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{session: &fakeSession{reply: "hi"}}
	b := NewBridge("key", gen, nil)
	require.Equal(t, BlankInputReply, b.Send(context.Background(), &Conversation{}, "   "))
	require.Equal(t, 0, gen.started)
}

func TestSendFailureIsAbsorbedAndLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	gen := &fakeGenerator{session: &fakeSession{err: errors.New("upstream 503")}}
	b := NewBridge("key", gen, zap.New(core))

	reply := b.Send(context.Background(), &Conversation{}, "hello")
	require.Equal(t, ConnectionLostReply, reply)

	entries := logs.FilterMessage("gemini error").All()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].ContextMap()["error"], "upstream 503")
}

func TestRenderReply(t *testing.T) {
	t.Parallel()

	html := string(RenderReply("**Claim your spot** <script>alert(1)</script>"))
	require.Contains(t, html, "<strong>Claim your spot</strong>")
	require.NotContains(t, html, "<script>")
}
