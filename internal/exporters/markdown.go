package exporters

import (
	"fmt"
	"strings"

	"nbserve/internal/nbformat"
)

// MarkdownExporter renders a notebook as a Markdown document. Image outputs
// are extracted to the output-files directory (when enabled) and referenced
// by relative link, matching the directory name recorded in the resource
// descriptor.
type MarkdownExporter struct {
	opts Options
}

func (e *MarkdownExporter) FileExtension() string { return ".md" }

func (e *MarkdownExporter) OutputMimetype() string { return "text/markdown" }

func (e *MarkdownExporter) FromNotebook(nb *nbformat.Notebook, res Resources) ([]byte, Resources, error) {
	res.OutputExtension = e.FileExtension()

	var b strings.Builder
	for i, cell := range nb.Cells {
		switch cell.CellType {
		case "markdown", "raw":
			b.WriteString(strings.TrimRight(cell.Source.String(), "\n"))
			b.WriteString("\n\n")

		case "code":
			if !e.opts.ExcludeInput {
				fmt.Fprintf(&b, "```%s\n%s\n```\n\n", nb.Language(),
					strings.TrimRight(cell.Source.String(), "\n"))
			}
			if e.opts.ExcludeOutputs {
				continue
			}
			for j, out := range cell.Outputs {
				if err := e.renderOutput(&b, &res, i, j, out); err != nil {
					return nil, res, err
				}
			}
		}
	}

	return []byte(b.String()), res, nil
}

func (e *MarkdownExporter) renderOutput(b *strings.Builder, res *Resources, cellIdx, outIdx int, out nbformat.Output) error {
	if mime, ext, content, ok := imageData(out); ok {
		if e.opts.ExtractImages {
			name, err := extractImage(res, cellIdx, outIdx, mime, ext, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(b, "![%s](%s)\n\n", mime, name)
			return nil
		}
		fmt.Fprintf(b, "![%s](data:%s;base64,%s)\n\n", mime, mime, strings.TrimSpace(content))
		return nil
	}

	if out.OutputType == "error" {
		fmt.Fprintf(b, "```\n%s: %s\n```\n\n", out.EName, out.EValue)
		return nil
	}

	if text := plainText(out); text != "" {
		fmt.Fprintf(b, "```\n%s\n```\n\n", strings.TrimRight(text, "\n"))
	}
	return nil
}
