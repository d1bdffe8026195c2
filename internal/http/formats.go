package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nbserve/internal/exporters"
)

// FormatsController lists the export formats the server can produce.
type FormatsController struct{}

func NewFormatsController() *FormatsController {
	return &FormatsController{}
}

type FormatInfo struct {
	Name          string `json:"name"`
	FileExtension string `json:"file_extension"`
	Mimetype      string `json:"mimetype"`
}

// List handles GET /api/formats
func (fc *FormatsController) List(c *gin.Context) {
	names := exporters.Formats()
	formats := make([]FormatInfo, 0, len(names))
	for _, name := range names {
		exporter, err := exporters.Get(name, exporters.Options{})
		if err != nil {
			respondInternalError(c, err, "list formats")
			return
		}
		formats = append(formats, FormatInfo{
			Name:          name,
			FileExtension: exporter.FileExtension(),
			Mimetype:      exporter.OutputMimetype(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"formats": formats})
}
