package exporters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbserve/internal/nbformat"
)

func TestGet(t *testing.T) {
	t.Run("resolves every registered format", func(t *testing.T) {
		for _, format := range Formats() {
			exporter, err := Get(format, Options{})
			require.NoError(t, err, "format %s", format)
			assert.NotNil(t, exporter)
			assert.NotEmpty(t, exporter.FileExtension())
		}
	})

	t.Run("returns ErrUnknownFormat for unregistered formats", func(t *testing.T) {
		_, err := Get("docx", Options{})
		assert.ErrorIs(t, err, ErrUnknownFormat)
		assert.ErrorContains(t, err, "docx")
	})
}

func TestFormats(t *testing.T) {
	formats := Formats()
	assert.Contains(t, formats, "html")
	assert.Contains(t, formats, "markdown")
	assert.Contains(t, formats, "latex")
	assert.Contains(t, formats, "script")
	assert.Contains(t, formats, "notebook")
	assert.IsIncreasing(t, formats)
}

func TestOptionsMerge(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	t.Run("overrides only set fields", func(t *testing.T) {
		base := Options{ExtractImages: true}
		merged := base.Merge(Overrides{ExcludeInput: boolPtr(true)})

		assert.True(t, merged.ExcludeInput)
		assert.True(t, merged.ExtractImages)
		assert.False(t, merged.ExcludeOutputs)
	})

	t.Run("does not mutate the base", func(t *testing.T) {
		base := Options{}
		_ = base.Merge(Overrides{ExcludeInput: boolPtr(true), ExtractImages: boolPtr(true)})
		assert.Equal(t, Options{}, base)
	})

	t.Run("empty overrides are a no-op", func(t *testing.T) {
		base := Options{ExcludeOutputs: true, ExtractImages: true}
		assert.Equal(t, base, base.Merge(Overrides{}))
	})
}

func TestParseOverrides(t *testing.T) {
	t.Run("parses JSON string", func(t *testing.T) {
		ov, err := ParseOverrides(`{"exclude_input": true, "extract_images": false}`)
		require.NoError(t, err)
		require.NotNil(t, ov.ExcludeInput)
		assert.True(t, *ov.ExcludeInput)
		require.NotNil(t, ov.ExtractImages)
		assert.False(t, *ov.ExtractImages)
		assert.Nil(t, ov.ExcludeOutputs)
	})

	t.Run("empty string yields empty overrides", func(t *testing.T) {
		ov, err := ParseOverrides("")
		require.NoError(t, err)
		assert.Equal(t, Overrides{}, ov)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseOverrides(`{exclude_input}`)
		assert.Error(t, err)
	})
}

func TestBuildResources(t *testing.T) {
	t.Run("derives output files dir from title", func(t *testing.T) {
		res := BuildResources("foo", "August 23, 2026", "/srv/notebooks", "/etc/nbserve")
		assert.Equal(t, "foo", res.Metadata.Name)
		assert.Equal(t, "foo_files", res.OutputFilesDir)
		assert.Equal(t, "/srv/notebooks", res.Metadata.Path)
		assert.Equal(t, "/etc/nbserve", res.ConfigDir)
	})

	t.Run("omits source path when storage has none", func(t *testing.T) {
		res := BuildResources("foo", "", "", "/etc/nbserve")
		assert.Empty(t, res.Metadata.Path)
		assert.Empty(t, res.Metadata.ModifiedDate)
	})
}

func TestNotebookExporter(t *testing.T) {
	nb, err := nbformat.Reads([]byte(`{"cells": [{"cell_type": "markdown", "source": "hi"}], "nbformat": 4}`))
	require.NoError(t, err)

	exporter, err := Get("notebook", Options{})
	require.NoError(t, err)

	output, res, err := exporter.FromNotebook(nb, BuildResources("nb", "", "", ""))
	require.NoError(t, err)
	assert.Equal(t, ".ipynb", res.OutputExtension)
	assert.Empty(t, res.Outputs)

	reparsed, err := nbformat.Reads(output)
	require.NoError(t, err)
	assert.Equal(t, nb.Cells, reparsed.Cells)
}

func TestScriptExporter(t *testing.T) {
	t.Run("keeps code cells and comments markdown", func(t *testing.T) {
		count := 2
		nb := &nbformat.Notebook{
			Metadata: map[string]any{"language_info": map[string]any{"name": "python"}},
			Cells: []nbformat.Cell{
				{CellType: "markdown", Source: "Setup"},
				{CellType: "code", Source: "import os", ExecutionCount: &count},
			},
		}

		exporter, err := Get("script", Options{})
		require.NoError(t, err)

		output, res, err := exporter.FromNotebook(nb, BuildResources("nb", "", "", ""))
		require.NoError(t, err)
		assert.Equal(t, ".py", res.OutputExtension)
		assert.Equal(t, "text/x-python", exporter.OutputMimetype())
		assert.Contains(t, string(output), "# Setup")
		assert.Contains(t, string(output), "# In[2]:")
		assert.Contains(t, string(output), "import os")
	})

	t.Run("mime type follows the kernel language", func(t *testing.T) {
		nb := &nbformat.Notebook{Metadata: map[string]any{
			"language_info": map[string]any{"name": "R"},
		}}
		exporter, _ := Get("script", Options{})
		_, res, err := exporter.FromNotebook(nb, BuildResources("nb", "", "", ""))
		require.NoError(t, err)
		assert.Equal(t, ".r", res.OutputExtension)
		assert.Equal(t, "text/x-rsrc", exporter.OutputMimetype())
	})

	t.Run("unknown language falls back to plain text", func(t *testing.T) {
		nb := &nbformat.Notebook{Metadata: map[string]any{
			"language_info": map[string]any{"name": "fortran"},
		}}
		exporter, _ := Get("script", Options{})
		_, res, err := exporter.FromNotebook(nb, BuildResources("nb", "", "", ""))
		require.NoError(t, err)
		assert.Equal(t, ".txt", res.OutputExtension)
		assert.Equal(t, "text/plain", exporter.OutputMimetype())
	})
}
