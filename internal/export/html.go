// Package export converts a briefing into a standalone HTML page for
// sharing outside the terminal.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; }
h1 { font-size: 1.4rem; border-bottom: 1px solid #ccc; padding-bottom: 0.3rem; }
ul { padding-left: 1.4rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// HTML renders a briefing as a complete HTML document. The briefing's
// bullet lines are treated as markdown so categories become proper
// lists.
func HTML(title, briefing string) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(briefing), &body); err != nil {
		return "", fmt.Errorf("failed to convert briefing: %w", err)
	}

	var page bytes.Buffer
	data := pageData{
		Title: strings.TrimSpace(title),
		Body:  template.HTML(body.String()),
	}
	if data.Title == "" {
		data.Title = "FNL Briefing"
	}
	if err := pageTemplate.Execute(&page, data); err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return page.String(), nil
}
