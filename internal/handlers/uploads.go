package handlers

import (
	"funddesk/internal/storage"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	files *storage.Store
}

func NewUploadHandler(files *storage.Store) *UploadHandler {
	return &UploadHandler{files: files}
}

// Fetch serves a stored attachment by its bare reference.
func (h *UploadHandler) Fetch(c *gin.Context) {
	f, err := h.files.Open(c.Param("name"))
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	c.File(f.Name())
}
