package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerylCAtieno/carolina-grind/internal/assistant"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type echoSession struct{ seen []string }

func (s *echoSession) SendMessage(_ context.Context, text string) (string, error) {
	s.seen = append(s.seen, text)
	return "echo: " + text, nil
}

type countingGenerator struct{ started int }

func (g *countingGenerator) StartChat(string) assistant.Session {
	g.started++
	return &echoSession{}
}

func newTestRouter(t *testing.T, bridge *assistant.Bridge) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewA2AHandler(bridge, nil).Register(r)
	return r
}

func post(t *testing.T, r http.Handler, body string) JSONRPCResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/a2a/grindbot", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JSONRPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func replyText(t *testing.T, resp JSONRPCResponse) (string, string) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var task TaskResult
	require.NoError(t, json.Unmarshal(b, &task))
	require.NotNil(t, task.Status.Message)
	require.Len(t, task.Status.Message.Parts, 1)
	return task.Status.Message.Parts[0].Text, task.ContextID
}

func TestAgentCard(t *testing.T) {
	r := newTestRouter(t, assistant.NewBridge("", nil, nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var card map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	require.Equal(t, "GrindBot", card["name"])
}

func TestMessageSendKeepsContext(t *testing.T) {
	gen := &countingGenerator{}
	r := newTestRouter(t, assistant.NewBridge("key", gen, nil))

	resp := post(t, r, `{"jsonrpc":"2.0","id":"1","method":"message/send","params":{"message":{"kind":"message","role":"user","parts":[{"kind":"text","text":"how do I join?"}]}}}`)
	require.Nil(t, resp.Error)
	text, contextID := replyText(t, resp)
	require.Equal(t, "echo: how do I join?", text)
	require.NotEmpty(t, contextID)

	resp = post(t, r, `{"jsonrpc":"2.0","id":"2","method":"message/send","params":{"message":{"kind":"message","role":"user","contextId":"`+contextID+`","parts":[{"kind":"text","text":"pricing?"}]}}}`)
	text, again := replyText(t, resp)
	require.Equal(t, "echo: pricing?", text)
	require.Equal(t, contextID, again)
	require.Equal(t, 1, gen.started, "same context reuses one conversation")
}

func TestMessageSendOffline(t *testing.T) {
	r := newTestRouter(t, assistant.NewBridge("", nil, nil))
	resp := post(t, r, `{"jsonrpc":"2.0","id":"1","method":"message/send","params":{"message":{"parts":[{"kind":"text","text":"yo"}]}}}`)
	text, _ := replyText(t, resp)
	require.Equal(t, assistant.OfflineReply, text)
}

func TestRPCErrors(t *testing.T) {
	r := newTestRouter(t, assistant.NewBridge("", nil, nil))

	cases := map[string]struct {
		body string
		code int
	}{
		"parse":   {`{not json`, CodeParseError},
		"version": {`{"jsonrpc":"1.0","id":"1","method":"message/send"}`, CodeInvalidRequest},
		"method":  {`{"jsonrpc":"2.0","id":"1","method":"tasks/cancel"}`, CodeMethodNotFound},
		"params":  {`{"jsonrpc":"2.0","id":"1","method":"message/send"}`, CodeInvalidParams},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := post(t, r, tc.body)
			require.NotNil(t, resp.Error)
			require.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestConversationEvictsLeastRecentlyUsed(t *testing.T) {
	h := NewA2AHandler(assistant.NewBridge("", nil, nil), nil)

	busy := h.conversation("busy")
	for i := 1; i < maxContexts; i++ {
		h.conversation(fmt.Sprintf("ctx-%d", i))
	}
	require.Same(t, busy, h.conversation("busy"))

	h.conversation("newcomer")
	require.Len(t, h.contexts, maxContexts)
	require.Same(t, busy, h.conversation("busy"))
	require.NotContains(t, h.contexts, "ctx-1")
	require.Contains(t, h.contexts, "ctx-2")
}
