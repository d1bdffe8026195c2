package exporters

import (
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"nbserve/internal/nbformat"
)

// imageMimePreference is the order in which a rich output's image
// representations are considered.
var imageMimePreference = []struct {
	mime string
	ext  string
}{
	{"image/png", ".png"},
	{"image/jpeg", ".jpg"},
	{"image/svg+xml", ".svg"},
}

// imageData picks the preferred image representation of an output.
func imageData(out nbformat.Output) (mime, ext, content string, ok bool) {
	for _, pref := range imageMimePreference {
		if data, found := out.Data[pref.mime]; found {
			return pref.mime, pref.ext, data.String(), true
		}
	}
	return "", "", "", false
}

// decodeImage converts stored image content to raw bytes. PNG and JPEG
// payloads are base64 in notebook files; SVG is stored as text.
func decodeImage(mime, content string) ([]byte, error) {
	if mime == "image/svg+xml" {
		return []byte(content), nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.ReplaceAll(content, "\n", "")))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s output: %w", mime, err)
	}
	return raw, nil
}

// extractImage decodes an image output into res.Outputs and returns the
// archive-relative file name it was stored under.
func extractImage(res *Resources, cellIdx, outIdx int, mime, ext, content string) (string, error) {
	raw, err := decodeImage(mime, content)
	if err != nil {
		return "", err
	}
	if res.Outputs == nil {
		res.Outputs = map[string][]byte{}
	}
	name := path.Join(res.OutputFilesDir, fmt.Sprintf("output_%d_%d%s", cellIdx, outIdx, ext))
	res.Outputs[name] = raw
	return name, nil
}

// plainText returns the text/plain representation of a rich output, or the
// stream text for stream outputs.
func plainText(out nbformat.Output) string {
	if out.Text != "" {
		return out.Text.String()
	}
	if data, ok := out.Data["text/plain"]; ok {
		return data.String()
	}
	return ""
}
