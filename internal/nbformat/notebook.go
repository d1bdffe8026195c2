package nbformat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Version is the notebook format major version this package understands.
const Version = 4

// Notebook is a Jupyter-style notebook document (nbformat 4).
type Notebook struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Cell is a single notebook cell. CellType is one of "code", "markdown" or "raw".
type Cell struct {
	CellType       string         `json:"cell_type"`
	Source         MultilineText  `json:"source"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Outputs        []Output       `json:"outputs,omitempty"`
	ExecutionCount *int           `json:"execution_count,omitempty"`
}

// Output is a single output of a code cell.
type Output struct {
	OutputType     string                   `json:"output_type"`
	Name           string                   `json:"name,omitempty"`
	Text           MultilineText            `json:"text,omitempty"`
	Data           map[string]MultilineText `json:"data,omitempty"`
	Metadata       map[string]any           `json:"metadata,omitempty"`
	ExecutionCount *int                     `json:"execution_count,omitempty"`
	EName          string                   `json:"ename,omitempty"`
	EValue         string                   `json:"evalue,omitempty"`
	Traceback      []string                 `json:"traceback,omitempty"`
}

// MultilineText is a notebook text field that may be serialized either as a
// single string or as a list of line strings. It always unmarshals to the
// joined form and marshals back as a single string.
type MultilineText string

func (m *MultilineText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MultilineText(s)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("multiline text must be a string or list of strings: %w", err)
	}
	*m = MultilineText(strings.Join(lines, ""))
	return nil
}

func (m MultilineText) String() string {
	return string(m)
}

// Reads parses notebook-file JSON into a Notebook.
func Reads(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to parse notebook JSON: %w", err)
	}

	if nb.NBFormat == 0 {
		nb.NBFormat = Version
	}
	if nb.NBFormat != Version {
		return nil, fmt.Errorf("unsupported notebook format version: %d", nb.NBFormat)
	}
	if nb.Metadata == nil {
		nb.Metadata = map[string]any{}
	}

	return &nb, nil
}

// Writes serializes a Notebook back to notebook-file JSON.
func Writes(nb *Notebook) ([]byte, error) {
	data, err := json.MarshalIndent(nb, "", " ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize notebook: %w", err)
	}
	return data, nil
}

// FromMap builds a Notebook from an already-decoded JSON object,
// e.g. the "content" field of a request body.
func FromMap(m map[string]any) (*Notebook, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode notebook content: %w", err)
	}
	return Reads(data)
}

// Language returns the notebook's kernel language, defaulting to "python".
func (nb *Notebook) Language() string {
	if info, ok := nb.Metadata["language_info"].(map[string]any); ok {
		if name, ok := info["name"].(string); ok && name != "" {
			return name
		}
	}
	if spec, ok := nb.Metadata["kernelspec"].(map[string]any); ok {
		if lang, ok := spec["language"].(string); ok && lang != "" {
			return lang
		}
	}
	return "python"
}
