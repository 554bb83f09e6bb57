package assistant

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdown = goldmark.New()
	policy   = bluemonday.UGCPolicy()
)

// RenderReply converts a markdown reply into sanitised HTML for the widget.
// If conversion fails the reply is shown as escaped text.
func RenderReply(text string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
