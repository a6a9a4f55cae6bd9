package handler

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown renders note content the way the web editor's live preview does:
// GitHub Flavored Markdown with hard line breaks, so a single newline in a
// note becomes a visible line break.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdown converts markdown source to HTML. Rendering never fails for
// valid UTF-8 input; on the off chance it does, the detail view falls back to
// an empty HTML field and the client still has the raw markdown.
func renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return ""
	}
	return buf.String()
}
