package site

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/BerylCAtieno/carolina-grind/internal/assistant"
	"github.com/BerylCAtieno/carolina-grind/internal/gallery"
	"github.com/BerylCAtieno/carolina-grind/internal/logging"
	"github.com/BerylCAtieno/carolina-grind/internal/models"
	"github.com/BerylCAtieno/carolina-grind/internal/submission"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const viewKey = "view"

// Options configures a Handler.
type Options struct {
	Store         *Store
	Bridge        *assistant.Bridge
	Logger        *zap.Logger
	HashKey       []byte
	BlockKey      []byte
	SecureCookies bool
}

// Handler serves the page and its fragments.
type Handler struct {
	store     *Store
	bridge    *assistant.Bridge
	logger    *zap.Logger
	tokens    *tokens
	templates *template.Template
}

func NewHandler(opts Options) (*Handler, error) {
	tmpl, err := template.New("site").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:     opts.Store,
		bridge:    opts.Bridge,
		logger:    logger,
		tokens:    newTokens(opts.HashKey, opts.BlockKey, opts.SecureCookies),
		templates: tmpl,
	}, nil
}

// Register mounts the page and fragment routes.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Page)

	v := r.Group("/", h.requireView)
	v.POST("/gallery/:id", h.Activate)
	v.POST("/modal/next", h.Step(gallery.Next))
	v.POST("/modal/prev", h.Step(gallery.Prev))
	v.POST("/modal/close", h.CloseModal)
	v.POST("/modal/backdrop", h.Backdrop)
	v.POST("/modal/key", h.Key)
	v.GET("/tiers", h.Tiers)
	v.POST("/tiers/:index", h.Submit)
	v.POST("/chat", h.Chat)
	v.DELETE("/view", h.Teardown)
}

// view data

type modalData struct {
	Open     bool
	Profile  models.Profile
	Position int
	Total    int
}

type tiersData struct {
	Tiers   []submission.TierView
	Pending bool
}

type pageData struct {
	ViewToken      string
	Cards          []gallery.Card
	Modal          modalData
	Tiers          tiersData
	Greeting       template.HTML
	ChatStatus     string
	ConnectionLost string
}

func (h *Handler) modal(v *View) modalData {
	p, ok := v.Navigator.Current()
	if !ok {
		return modalData{Total: h.store.catalog.Len()}
	}
	return modalData{
		Open:     true,
		Profile:  p,
		Position: h.store.catalog.IndexOf(p.ID) + 1,
		Total:    h.store.catalog.Len(),
	}
}

func tiers(v *View) tiersData {
	return newTiersData(v.Panel.Snapshot())
}

// newTiersData derives Pending from the same snapshot the tiers render from.
func newTiersData(views []submission.TierView) tiersData {
	d := tiersData{Tiers: views}
	for _, tv := range views {
		if tv.State == submission.Submitting {
			d.Pending = true
		}
	}
	return d
}

func chatStatus(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}

func (h *Handler) render(c *gin.Context, name string, data any) {
	c.Render(http.StatusOK, render.HTML{Template: h.templates, Name: name, Data: data})
}

// Page renders the whole site on a fresh View.
func (h *Handler) Page(c *gin.Context) {
	v := h.store.Create()
	token, err := h.tokens.encode(v.ID)
	if err != nil {
		h.store.Delete(v.ID)
		h.logger.Error("encode view token", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	h.tokens.setCookie(c, token)
	c.Set(logging.ViewIDKey, v.ID)

	h.render(c, "page", pageData{
		ViewToken:      token,
		Cards:          v.Grid.Cards(),
		Modal:          h.modal(v),
		Tiers:          tiers(v),
		Greeting:       assistant.RenderReply(assistant.Greeting),
		ChatStatus:     chatStatus(h.bridge.Online()),
		ConnectionLost: assistant.ConnectionLostReply,
	})
}

func (h *Handler) requireView(c *gin.Context) {
	id, ok := h.tokens.viewID(c.Request)
	if !ok {
		c.AbortWithStatus(http.StatusGone)
		return
	}
	v, err := h.store.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusGone)
		return
	}
	c.Set(viewKey, v)
	c.Set(logging.ViewIDKey, v.ID)
	c.Next()
}

func currentView(c *gin.Context) *View {
	return c.MustGet(viewKey).(*View)
}

// Activate opens the modal on a gallery card.
func (h *Handler) Activate(c *gin.Context) {
	v := currentView(c)
	if !v.Grid.Activate(c.Param("id")) {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	h.render(c, "modal", h.modal(v))
}

// Step moves the carousel; closed modals ignore it.
func (h *Handler) Step(dir gallery.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := currentView(c)
		v.Navigator.Step(dir)
		h.render(c, "modal", h.modal(v))
	}
}

func (h *Handler) CloseModal(c *gin.Context) {
	v := currentView(c)
	v.Navigator.Close()
	h.render(c, "modal", h.modal(v))
}

// Backdrop handles a pointer interaction on the overlay.
func (h *Handler) Backdrop(c *gin.Context) {
	v := currentView(c)
	v.Navigator.PointerDown(gallery.Target(c.PostForm("target")))
	h.render(c, "modal", h.modal(v))
}

// Key dispatches a keyboard event through the view's listener registry.
func (h *Handler) Key(c *gin.Context) {
	v := currentView(c)
	if key := strings.TrimSpace(c.PostForm("key")); key != "" {
		v.Keyboard.Dispatch(gallery.Key(key))
	}
	h.render(c, "modal", h.modal(v))
}

func (h *Handler) Tiers(c *gin.Context) {
	h.render(c, "tiers", tiers(currentView(c)))
}

// Submit starts a simulated submission. Rejected submissions re-render the
// unchanged panel.
func (h *Handler) Submit(c *gin.Context) {
	v := currentView(c)
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if v.Panel.Submit(i) {
		h.logger.Info("submission started", zap.String("view_id", v.ID), zap.Int("tier", i))
	}
	h.render(c, "tiers", tiers(v))
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string        `json:"reply"`
	HTML  template.HTML `json:"html"`
}

// Chat forwards a widget message to the assistant. It always answers 200
// with a reply once the request is well formed.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	v := currentView(c)
	reply := h.bridge.Send(c.Request.Context(), v.Conversation, req.Message)
	c.JSON(http.StatusOK, chatResponse{Reply: reply, HTML: assistant.RenderReply(reply)})
}

// Teardown discards the view, e.g. when the page unloads.
func (h *Handler) Teardown(c *gin.Context) {
	h.store.Delete(currentView(c).ID)
	h.tokens.clearCookie(c)
	c.Status(http.StatusNoContent)
}
