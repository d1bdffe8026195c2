package exporters

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"nbserve/internal/nbformat"
)

// htmlPageTemplate is the standalone page every HTML conversion renders into.
// Markdown sources are shown preformatted; rich image outputs are inlined as
// data URIs so the document stays self-contained.
var htmlPageTemplate = template.Must(template.New("notebook").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
pre { background: #f5f5f5; padding: 0.75rem; overflow-x: auto; }
.cell { margin-bottom: 1.5rem; }
.output { border-left: 3px solid #ddd; padding-left: 0.75rem; }
img { max-width: 100%; }
</style>
</head>
<body>
{{range .Cells}}<div class="cell">
{{.}}</div>
{{end}}</body>
</html>
`))

type htmlPage struct {
	Title string
	Cells []template.HTML
}

// HTMLExporter renders a notebook as a standalone HTML page.
type HTMLExporter struct {
	opts Options
}

func (e *HTMLExporter) FileExtension() string { return ".html" }

func (e *HTMLExporter) OutputMimetype() string { return "text/html" }

func (e *HTMLExporter) FromNotebook(nb *nbformat.Notebook, res Resources) ([]byte, Resources, error) {
	res.OutputExtension = e.FileExtension()

	page := htmlPage{Title: res.Metadata.Name}
	for _, cell := range nb.Cells {
		rendered, err := e.renderCell(cell)
		if err != nil {
			return nil, res, err
		}
		if rendered != "" {
			page.Cells = append(page.Cells, rendered)
		}
	}

	var buf bytes.Buffer
	if err := htmlPageTemplate.Execute(&buf, page); err != nil {
		return nil, res, fmt.Errorf("failed to render HTML template: %w", err)
	}
	return buf.Bytes(), res, nil
}

func (e *HTMLExporter) renderCell(cell nbformat.Cell) (template.HTML, error) {
	var b strings.Builder

	switch cell.CellType {
	case "markdown", "raw":
		fmt.Fprintf(&b, "<pre class=\"markdown\">%s</pre>\n",
			template.HTMLEscapeString(cell.Source.String()))

	case "code":
		if !e.opts.ExcludeInput {
			fmt.Fprintf(&b, "<pre class=\"input\"><code>%s</code></pre>\n",
				template.HTMLEscapeString(cell.Source.String()))
		}
		if !e.opts.ExcludeOutputs {
			for _, out := range cell.Outputs {
				e.renderOutput(&b, out)
			}
		}
	}

	return template.HTML(b.String()), nil
}

func (e *HTMLExporter) renderOutput(b *strings.Builder, out nbformat.Output) {
	if mime, _, content, ok := imageData(out); ok {
		if mime == "image/svg+xml" {
			// SVG is markup already; embedding the raw document keeps it scalable.
			b.WriteString("<div class=\"output\">" + content + "</div>\n")
			return
		}
		fmt.Fprintf(b, "<div class=\"output\"><img src=\"data:%s;base64,%s\"></div>\n",
			mime, strings.TrimSpace(content))
		return
	}

	if out.OutputType == "error" {
		fmt.Fprintf(b, "<pre class=\"output error\">%s: %s</pre>\n",
			template.HTMLEscapeString(out.EName), template.HTMLEscapeString(out.EValue))
		return
	}

	if text := plainText(out); text != "" {
		fmt.Fprintf(b, "<pre class=\"output\">%s</pre>\n", template.HTMLEscapeString(text))
	}
}
