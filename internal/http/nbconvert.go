package http

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nbserve/internal/contents"
	"nbserve/internal/entities"
	"nbserve/internal/exporters"
	"nbserve/internal/nbformat"
	"nbserve/internal/utils"
)

// defaultNotebookName is used when an inline conversion request omits a name.
const defaultNotebookName = "notebook.ipynb"

// NbconvertController converts notebooks to other formats over HTTP.
type NbconvertController struct {
	contents  contents.Manager
	opts      exporters.Options
	configDir string
	auditor   AuditLogger
}

// AuditLogger records conversion outcomes. Implemented by audit.Service.
type AuditLogger interface {
	LogConversion(format, path string, source entities.ConversionSource, duration time.Duration, err error)
}

func NewNbconvertController(manager contents.Manager, opts exporters.Options, configDir string, auditor AuditLogger) *NbconvertController {
	return &NbconvertController{
		contents:  manager,
		opts:      opts,
		configDir: configDir,
		auditor:   auditor,
	}
}

type convertBodyRequest struct {
	Content json.RawMessage `json:"content" binding:"required"`
	Name    string          `json:"name"`
}

type convertFileRequest struct {
	Notebook json.RawMessage `json:"notebook"`
	// Config is a JSON string of exporter option overrides
	Config string `json:"config"`
}

// FromBody handles POST /nbconvert/:format with an inline notebook.
func (ctrl *NbconvertController) FromBody(c *gin.Context) {
	format := c.Param("format")
	start := time.Now()

	var req convertBodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "content is required")
		return
	}
	if req.Name == "" {
		req.Name = defaultNotebookName
	}

	nb, err := nbformat.Reads(req.Content)
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("invalid notebook: %v", err))
		return
	}

	title := utils.TitleFromName(req.Name)
	res := exporters.BuildResources(title, "", "", ctrl.configDir)

	output, res, exporter, err := ctrl.convert(format, ctrl.opts, nb, res)
	ctrl.logAudit(format, "", entities.ConversionSourceBody, start, err)
	if err != nil {
		ctrl.respondConvertError(c, format, err)
		return
	}

	ctrl.respond(c, title, output, res, exporter, false)
}

// FromFile handles GET and POST /nbconvert/:format/*path. The notebook is
// loaded from storage; a POST body may substitute the document and override
// exporter options, while metadata still comes from the stored file.
func (ctrl *NbconvertController) FromFile(c *gin.Context) {
	format := c.Param("format")
	notebookPath := strings.TrimPrefix(c.Param("path"), "/")
	start := time.Now()

	model, err := ctrl.contents.Get(notebookPath)
	if err != nil {
		if errors.Is(err, contents.ErrNotFound) {
			respondNotFound(c, "notebook")
			return
		}
		respondInternalError(c, err, "load notebook")
		return
	}

	if model.Type != contents.TypeNotebook {
		c.Redirect(http.StatusFound, "/files/"+notebookPath)
		return
	}

	opts := ctrl.opts
	nb := model.Notebook

	if c.Request.Method == http.MethodPost {
		var req convertFileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body")
			return
		}
		if req.Config != "" {
			overrides, err := exporters.ParseOverrides(req.Config)
			if err != nil {
				respondBadRequest(c, fmt.Sprintf("invalid config: %v", err))
				return
			}
			opts = opts.Merge(overrides)
		}
		if len(req.Notebook) > 0 {
			nb, err = nbformat.Reads(req.Notebook)
			if err != nil {
				respondBadRequest(c, fmt.Sprintf("invalid notebook: %v", err))
				return
			}
		}
	}

	title := utils.TitleFromName(model.Name)
	sourceDir := ""
	if osPath, ok := ctrl.contents.OSPath(notebookPath); ok {
		sourceDir = filepath.Dir(osPath)
	}
	res := exporters.BuildResources(
		title,
		model.LastModified.Format(exporters.ModifiedDateFormat),
		sourceDir,
		ctrl.configDir,
	)

	output, res, exporter, err := ctrl.convert(format, opts, nb, res)
	ctrl.logAudit(format, notebookPath, entities.ConversionSourcePath, start, err)
	if err != nil {
		ctrl.respondConvertError(c, format, err)
		return
	}

	c.Header("Last-Modified", model.LastModified.UTC().Format(http.TimeFormat))

	download := strings.EqualFold(c.Query("download"), "true")
	ctrl.respond(c, title, output, res, exporter, download)
}

// convert resolves the exporter and runs the conversion.
func (ctrl *NbconvertController) convert(
	format string,
	opts exporters.Options,
	nb *nbformat.Notebook,
	res exporters.Resources,
) ([]byte, exporters.Resources, exporters.Exporter, error) {
	exporter, err := exporters.Get(format, opts)
	if err != nil {
		return nil, res, nil, err
	}

	output, res, err := exporter.FromNotebook(nb, res)
	if err != nil {
		return nil, res, nil, fmt.Errorf("conversion to %s failed: %w", format, err)
	}

	return output, res, exporter, nil
}

// respondConvertError maps conversion failures to HTTP errors. Unknown
// formats are the client's mistake; everything else is a server error.
func (ctrl *NbconvertController) respondConvertError(c *gin.Context, format string, err error) {
	if errors.Is(err, exporters.ErrUnknownFormat) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondInternalError(c, err, fmt.Sprintf("nbconvert %s", format))
}

// respond writes the conversion result. Conversions that produced auxiliary
// files are packaged into a zip archive; otherwise the output is sent raw.
func (ctrl *NbconvertController) respond(c *gin.Context, title string, output []byte, res exporters.Resources, exporter exporters.Exporter, download bool) {
	if len(res.Outputs) > 0 {
		ctrl.respondZip(c, title, output, res)
		return
	}

	if download {
		filename := title + res.OutputExtension
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", url.QueryEscape(filename)))
	}

	if mimetype := exporter.OutputMimetype(); mimetype != "" {
		c.Data(http.StatusOK, mimetype+"; charset=utf-8", output)
		return
	}
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write(output)
}

// respondZip packages the converted document and its auxiliary files into an
// in-memory deflate-compressed archive.
func (ctrl *NbconvertController) respondZip(c *gin.Context, title string, output []byte, res exporters.Resources) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	writer, err := zipWriter.Create(title + res.OutputExtension)
	if err != nil {
		respondInternalError(c, err, "create zip entry")
		return
	}
	if _, err := writer.Write(output); err != nil {
		respondInternalError(c, err, "write zip entry")
		return
	}

	// Sorted names keep archives deterministic. Entries keep their full
	// archive-relative names so links inside the document stay valid
	// after extraction.
	names := make([]string, 0, len(res.Outputs))
	for name := range res.Outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		writer, err := zipWriter.Create(name)
		if err != nil {
			respondInternalError(c, err, "create zip entry")
			return
		}
		if _, err := writer.Write(res.Outputs[name]); err != nil {
			respondInternalError(c, err, "write zip entry")
			return
		}
	}

	if err := zipWriter.Close(); err != nil {
		respondInternalError(c, err, "finalize zip")
		return
	}

	zipFilename := url.QueryEscape(title + ".zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", zipFilename))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func (ctrl *NbconvertController) logAudit(format, path string, source entities.ConversionSource, start time.Time, err error) {
	if ctrl.auditor == nil {
		return
	}
	ctrl.auditor.LogConversion(format, path, source, time.Since(start), err)
}
