package exporters

import (
	"fmt"
	"strings"

	"nbserve/internal/nbformat"
)

// LaTeXExporter renders a notebook as a LaTeX article. Image outputs are
// extracted to the output-files directory and included via graphicx, so a
// conversion with figures always produces auxiliary files.
type LaTeXExporter struct {
	opts Options
}

func (e *LaTeXExporter) FileExtension() string { return ".tex" }

func (e *LaTeXExporter) OutputMimetype() string { return "text/latex" }

var latexEscaper = strings.NewReplacer(
	"\\", `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

func (e *LaTeXExporter) FromNotebook(nb *nbformat.Notebook, res Resources) ([]byte, Resources, error) {
	res.OutputExtension = e.FileExtension()

	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	b.WriteString("\\usepackage{graphicx}\n")
	b.WriteString("\\usepackage{verbatim}\n")
	fmt.Fprintf(&b, "\\title{%s}\n", latexEscaper.Replace(res.Metadata.Name))
	if res.Metadata.ModifiedDate != "" {
		fmt.Fprintf(&b, "\\date{%s}\n", latexEscaper.Replace(res.Metadata.ModifiedDate))
	}
	b.WriteString("\\begin{document}\n\\maketitle\n\n")

	for i, cell := range nb.Cells {
		switch cell.CellType {
		case "markdown", "raw":
			b.WriteString(latexEscaper.Replace(strings.TrimRight(cell.Source.String(), "\n")))
			b.WriteString("\n\n")

		case "code":
			if !e.opts.ExcludeInput {
				fmt.Fprintf(&b, "\\begin{verbatim}\n%s\n\\end{verbatim}\n\n",
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

	b.WriteString("\\end{document}\n")
	return []byte(b.String()), res, nil
}

func (e *LaTeXExporter) renderOutput(b *strings.Builder, res *Resources, cellIdx, outIdx int, out nbformat.Output) error {
	if mime, ext, content, ok := imageData(out); ok {
		// LaTeX cannot consume inline data URIs, so figures are always
		// extracted regardless of the ExtractImages option.
		name, err := extractImage(res, cellIdx, outIdx, mime, ext, content)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "\\begin{center}\n\\includegraphics{%s}\n\\end{center}\n\n", name)
		return nil
	}

	if out.OutputType == "error" {
		fmt.Fprintf(b, "\\begin{verbatim}\n%s: %s\n\\end{verbatim}\n\n", out.EName, out.EValue)
		return nil
	}

	if text := plainText(out); text != "" {
		fmt.Fprintf(b, "\\begin{verbatim}\n%s\n\\end{verbatim}\n\n", strings.TrimRight(text, "\n"))
	}
	return nil
}
