package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nbserve/internal/contents"
)

// FilesController serves raw files from notebook storage.
type FilesController struct {
	contents contents.Manager
}

func NewFilesController(manager contents.Manager) *FilesController {
	return &FilesController{contents: manager}
}

// Serve handles GET /files/*path
func (fc *FilesController) Serve(c *gin.Context) {
	path := c.Param("path")

	model, err := fc.contents.Get(path)
	if err != nil {
		if errors.Is(err, contents.ErrNotFound) {
			respondNotFound(c, "file")
			return
		}
		respondInternalError(c, err, "serve file")
		return
	}
	if model.Type == contents.TypeDirectory {
		respondNotFound(c, "file")
		return
	}

	osPath, ok := fc.contents.OSPath(path)
	if !ok {
		respondNotFound(c, "file")
		return
	}
	c.File(osPath)
}
