package exporters

import (
	"fmt"
	"strings"

	"nbserve/internal/nbformat"
)

// scriptLanguages maps kernel languages to script file extensions and
// MIME types.
var scriptLanguages = map[string]struct {
	ext  string
	mime string
}{
	"python": {".py", "text/x-python"},
	"r":      {".r", "text/x-rsrc"},
	"julia":  {".jl", "text/x-julia"},
	"bash":   {".sh", "text/x-sh"},
}

// ScriptExporter concatenates a notebook's code cells into an executable
// script. Markdown cells become comments; outputs are dropped.
type ScriptExporter struct {
	opts Options

	// mimetype is set during FromNotebook once the kernel language is known
	mimetype string
}

func (e *ScriptExporter) FileExtension() string { return ".py" }

func (e *ScriptExporter) OutputMimetype() string {
	if e.mimetype != "" {
		return e.mimetype
	}
	return "text/x-python"
}

func (e *ScriptExporter) FromNotebook(nb *nbformat.Notebook, res Resources) ([]byte, Resources, error) {
	lang, ok := scriptLanguages[strings.ToLower(nb.Language())]
	if !ok {
		lang.ext = ".txt"
		lang.mime = "text/plain"
	}
	res.OutputExtension = lang.ext
	e.mimetype = lang.mime

	var b strings.Builder
	fmt.Fprintf(&b, "#!/usr/bin/env %s\n# coding: utf-8\n\n", nb.Language())

	for _, cell := range nb.Cells {
		switch cell.CellType {
		case "markdown":
			for _, line := range strings.Split(strings.TrimRight(cell.Source.String(), "\n"), "\n") {
				fmt.Fprintf(&b, "# %s\n", line)
			}
			b.WriteString("\n")

		case "code":
			if cell.ExecutionCount != nil {
				fmt.Fprintf(&b, "# In[%d]:\n", *cell.ExecutionCount)
			}
			b.WriteString(strings.TrimRight(cell.Source.String(), "\n"))
			b.WriteString("\n\n")
		}
	}

	return []byte(b.String()), res, nil
}
