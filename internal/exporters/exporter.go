package exporters

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"nbserve/internal/nbformat"
)

// ErrUnknownFormat is returned by Get for format identifiers that have no
// registered exporter. Handlers map it to HTTP 404.
var ErrUnknownFormat = errors.New("no exporter for format")

// Exporter converts a notebook document to a single output format.
// Implementations are constructed per conversion and hold no state that
// survives a FromNotebook call.
type Exporter interface {
	// FromNotebook renders the notebook. The returned Resources is an
	// enriched copy of the input: OutputExtension is always set, and
	// Outputs carries any auxiliary files the conversion produced.
	FromNotebook(nb *nbformat.Notebook, res Resources) ([]byte, Resources, error)

	// OutputMimetype is the MIME type of the primary output, or "" when
	// the exporter declares none.
	OutputMimetype() string

	// FileExtension is the output file extension including the dot.
	FileExtension() string
}

// Factory constructs an exporter from the effective options.
type Factory func(opts Options) (Exporter, error)

// registry maps format identifiers to factories. It is populated once at
// process start; lookups never mutate it.
var registry = map[string]Factory{
	"html":     func(opts Options) (Exporter, error) { return &HTMLExporter{opts: opts}, nil },
	"markdown": func(opts Options) (Exporter, error) { return &MarkdownExporter{opts: opts}, nil },
	"latex":    func(opts Options) (Exporter, error) { return &LaTeXExporter{opts: opts}, nil },
	"script":   func(opts Options) (Exporter, error) { return &ScriptExporter{opts: opts}, nil },
	"notebook": func(opts Options) (Exporter, error) { return &NotebookExporter{}, nil },
}

// Get resolves a format identifier to a ready-to-invoke exporter.
// Unknown formats yield ErrUnknownFormat; a factory failure is wrapped
// with the format name.
func Get(format string, opts Options) (Exporter, error) {
	factory, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	exporter, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("could not construct exporter for %s: %w", format, err)
	}
	return exporter, nil
}

// Formats returns the registered format identifiers, sorted.
func Formats() []string {
	formats := make([]string, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Options is the effective exporter configuration for one conversion.
// It is immutable once built: overrides produce a new value via Merge.
type Options struct {
	// ExcludeInput drops code-cell sources from the output.
	ExcludeInput bool
	// ExcludeOutputs drops code-cell outputs from the output.
	ExcludeOutputs bool
	// ExtractImages moves image outputs into auxiliary files under the
	// resource descriptor's output-files directory instead of inlining them.
	ExtractImages bool
}

// Overrides is the client-supplied partial configuration carried in the
// "config" field of a path-based POST. Nil fields leave the base untouched.
type Overrides struct {
	ExcludeInput   *bool `json:"exclude_input,omitempty"`
	ExcludeOutputs *bool `json:"exclude_outputs,omitempty"`
	ExtractImages  *bool `json:"extract_images,omitempty"`
}

// Merge applies overrides on top of the receiver and returns the result.
// Neither the receiver nor the overrides are modified.
func (o Options) Merge(ov Overrides) Options {
	merged := o
	if ov.ExcludeInput != nil {
		merged.ExcludeInput = *ov.ExcludeInput
	}
	if ov.ExcludeOutputs != nil {
		merged.ExcludeOutputs = *ov.ExcludeOutputs
	}
	if ov.ExtractImages != nil {
		merged.ExtractImages = *ov.ExtractImages
	}
	return merged
}

// ParseOverrides decodes the JSON-string form of exporter overrides.
func ParseOverrides(raw string) (Overrides, error) {
	var ov Overrides
	if raw == "" {
		return ov, nil
	}
	if err := json.Unmarshal([]byte(raw), &ov); err != nil {
		return Overrides{}, fmt.Errorf("invalid exporter config: %w", err)
	}
	return ov, nil
}

// ResourceMetadata describes the notebook a conversion runs against.
type ResourceMetadata struct {
	Name         string `json:"name"`
	ModifiedDate string `json:"modified_date,omitempty"`
	// Path is the on-disk directory holding the notebook, when the
	// storage backend is file-backed. Omitted otherwise.
	Path string `json:"path,omitempty"`
}

// Resources is the metadata bundle threaded through a conversion call.
// It is passed by value; exporters return an enriched copy.
type Resources struct {
	Metadata       ResourceMetadata `json:"metadata"`
	ConfigDir      string           `json:"config_dir,omitempty"`
	OutputFilesDir string           `json:"output_files_dir,omitempty"`

	// Outputs holds auxiliary files produced by the conversion,
	// keyed by archive-relative file name.
	Outputs map[string][]byte `json:"-"`
	// OutputExtension is filled in by the exporter.
	OutputExtension string `json:"-"`
}

// ModifiedDateFormat is the human-readable timestamp format recorded in
// resource metadata.
const ModifiedDateFormat = "January 2, 2006"

// BuildResources assembles the descriptor for a conversion. modifiedDate
// and sourceDir may be empty when the storage backend has no timestamp or
// no on-disk path for the notebook.
func BuildResources(title, modifiedDate, sourceDir, configDir string) Resources {
	res := Resources{
		Metadata: ResourceMetadata{
			Name:         title,
			ModifiedDate: modifiedDate,
		},
		ConfigDir:      configDir,
		OutputFilesDir: title + "_files",
	}
	if sourceDir != "" {
		res.Metadata.Path = sourceDir
	}
	return res
}
