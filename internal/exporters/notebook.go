package exporters

import (
	"nbserve/internal/nbformat"
)

// NotebookExporter is the normalizing passthrough: it re-serializes the
// document as notebook-file JSON without transforming it.
type NotebookExporter struct{}

func (e *NotebookExporter) FileExtension() string { return ".ipynb" }

func (e *NotebookExporter) OutputMimetype() string { return "application/json" }

func (e *NotebookExporter) FromNotebook(nb *nbformat.Notebook, res Resources) ([]byte, Resources, error) {
	res.OutputExtension = e.FileExtension()

	data, err := nbformat.Writes(nb)
	if err != nil {
		return nil, res, err
	}
	return data, res, nil
}
