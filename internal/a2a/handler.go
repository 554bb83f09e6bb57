package a2a

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/BerylCAtieno/carolina-grind/internal/assistant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed agent.json
var agentCard []byte

// maxContexts bounds the number of remembered agent conversations.
const maxContexts = 1024

type A2AHandler struct {
	bridge *assistant.Bridge
	logger *zap.Logger

	mu       sync.Mutex
	contexts map[string]*assistant.Conversation
	order    []string
}

func NewA2AHandler(bridge *assistant.Bridge, logger *zap.Logger) *A2AHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &A2AHandler{
		bridge:   bridge,
		logger:   logger,
		contexts: make(map[string]*assistant.Conversation),
	}
}

// Register mounts the agent card and the JSON-RPC endpoint.
func (h *A2AHandler) Register(r gin.IRouter) {
	r.GET("/.well-known/agent.json", h.ServeAgentCard)
	r.POST("/a2a/grindbot", h.HandleGrindBot)
}

// ServeAgentCard serves the embedded agent card.
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", agentCard)
}

// HandleGrindBot processes A2A JSON-RPC messages.
func (h *A2AHandler) HandleGrindBot(c *gin.Context) {
	var rpcReq JSONRPCRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&rpcReq); err != nil {
		h.logger.Warn("a2a: decode request", zap.Error(err))
		h.sendErrorResponse(c, "", "Parse error", CodeParseError)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "message/send", "agent/task":
		h.handleMessage(c, rpcReq)
	default:
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *A2AHandler) handleMessage(c *gin.Context, rpcReq JSONRPCRequest) {
	var params MessageParams
	if len(rpcReq.Params) == 0 {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}
	if err := json.Unmarshal(rpcReq.Params, &params); err != nil {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	contextID := params.Message.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}
	taskID := params.Message.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	text := extractText(params.Message)
	if text == "" {
		h.sendSuccessResponse(c, rpcReq.ID, taskResult(taskID, contextID, StateInputRequired, assistant.BlankInputReply))
		return
	}

	conv := h.conversation(contextID)
	reply := h.bridge.Send(c.Request.Context(), conv, text)
	h.logger.Debug("a2a: replied", zap.String("context_id", contextID), zap.Int("turns", conv.Turns()))

	h.sendSuccessResponse(c, rpcReq.ID, taskResult(taskID, contextID, StateCompleted, reply))
}

// conversation returns the conversation for contextID, creating it if needed.
// When full, the least recently used context is evicted.
func (h *A2AHandler) conversation(contextID string) *assistant.Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conv, ok := h.contexts[contextID]; ok {
		h.touchLocked(contextID)
		return conv
	}
	if len(h.order) >= maxContexts {
		oldest := h.order[0]
		h.order = h.order[1:]
		delete(h.contexts, oldest)
	}
	conv := &assistant.Conversation{}
	h.contexts[contextID] = conv
	h.order = append(h.order, contextID)
	return conv
}

// touchLocked moves contextID to the most recently used end of order.
func (h *A2AHandler) touchLocked(contextID string) {
	i := slices.Index(h.order, contextID)
	if i < 0 || i == len(h.order)-1 {
		return
	}
	h.order = append(slices.Delete(h.order, i, i+1), contextID)
}

func extractText(msg A2AMessage) string {
	var texts []string
	for _, part := range msg.Parts {
		if part.Kind == "text" && strings.TrimSpace(part.Text) != "" {
			texts = append(texts, strings.TrimSpace(part.Text))
		}
	}
	return strings.Join(texts, " ")
}

func taskResult(taskID, contextID, state, text string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     state,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				ContextID: contextID,
				Parts:     []MessagePart{TextPart(text)},
			},
		},
		Artifacts: []Artifact{{
			ArtifactID: uuid.NewString(),
			Name:       "GrindBot Reply",
			Parts:      []MessagePart{TextPart(text)},
		}},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id string, result interface{}) {
	c.JSON(http.StatusOK, JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

// JSON-RPC errors are sent with 200 OK.
func (h *A2AHandler) sendErrorResponse(c *gin.Context, id string, message string, code int) {
	h.logger.Info("a2a: rpc error", zap.Int("code", code), zap.String("message", message))
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}
