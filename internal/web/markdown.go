package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in notes is not rendered; goldmark drops it unless WithUnsafe is set.
var noteEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// renderNote turns a note into HTML for the latest-entry panel.
func renderNote(note string) template.HTML {
	text := strings.TrimSpace(note)
	if text == "" {
		return ""
	}
	var out bytes.Buffer
	if err := noteEngine.Convert([]byte(text), &out); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(out.String())
}
