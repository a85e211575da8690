package bridge

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/smartcalc/internal/scientific"
	"github.com/ziadkadry99/smartcalc/internal/theme"
)

// Chroma styles per theme.
var codeStyles = map[string]string{
	theme.Light: "github",
	theme.Dark:  "monokai",
}

const helpTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Theme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>SmartCalc help</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
    [data-theme="dark"] body { background: #1e1e1e; color: #e0e0e0; }
    code { font-family: ui-monospace, monospace; }
    pre { padding: 0.75rem; border-radius: 6px; overflow-x: auto; }
  </style>
</head>
<body>
{{.Content}}
</body>
</html>
`

var helpPage = template.Must(template.New("help").Parse(helpTemplate))

// renderHelp converts the scientific calculator help to an HTML page in
// the given theme.
func renderHelp(themeName string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(codeStyles[themeName]),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(scientific.HelpMarkdown()), &body); err != nil {
		return nil, fmt.Errorf("converting help markdown: %w", err)
	}

	var page bytes.Buffer
	err := helpPage.Execute(&page, struct {
		Theme   string
		Content template.HTML
	}{
		Theme:   themeName,
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering help page: %w", err)
	}
	return page.Bytes(), nil
}

func (b *Bridge) handleHelp(w http.ResponseWriter, r *http.Request) {
	page, err := renderHelp(b.app.Theme.Current())
	if err != nil {
		b.logger.Error("help page failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
