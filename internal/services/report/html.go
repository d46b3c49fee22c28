package report

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const htmlStyle = `
body { font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
       max-width: 860px; margin: 2em auto; padding: 0 1em; color: #1a1a2e; line-height: 1.5; }
h1 { border-bottom: 2px solid #1a1a2e; padding-bottom: 0.3em; }
h2 { border-bottom: 1px solid #d0d0d8; padding-bottom: 0.2em; margin-top: 1.6em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; font-size: 0.9em; }
th, td { border: 1px solid #c8c8d0; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #eceef2; }
hr { border: none; border-top: 1px solid #d0d0d8; margin: 2em 0; }
`

// RenderHTML converts the composed markdown into a standalone HTML page.
func RenderHTML(markdown, title string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&page, "<style>%s</style>\n", htmlStyle)
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	return page.Bytes(), nil
}
