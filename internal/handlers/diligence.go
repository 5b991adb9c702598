package handlers

import (
	"net/http"

	"funddesk/internal/services"

	"github.com/gin-gonic/gin"
)

type DiligenceHandler struct {
	diligence *services.DiligenceService
}

func NewDiligenceHandler(diligence *services.DiligenceService) *DiligenceHandler {
	return &DiligenceHandler{diligence: diligence}
}

// diligenceAttrs reads content, date and the optional multipart file.
func diligenceAttrs(c *gin.Context) (services.DiligenceAttrs, func(), error) {
	attrs := services.DiligenceAttrs{
		Date:    c.PostForm("date"),
		Content: c.PostForm("content"),
	}
	cleanup := func() {}

	fh, err := c.FormFile("file")
	if err != nil {
		// absent file is fine
		return attrs, cleanup, nil
	}

	f, err := fh.Open()
	if err != nil {
		return attrs, cleanup, err
	}
	attrs.File = &services.Upload{Name: fh.Filename, Reader: f}
	cleanup = func() { f.Close() }
	return attrs, cleanup, nil
}

func (h *DiligenceHandler) Create(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	fundID, ok := idParam(c)
	if !ok {
		return
	}

	attrs, cleanup, err := diligenceAttrs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload"})
		return
	}
	defer cleanup()

	dd, err := h.diligence.Add(fundID, user, attrs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dd)
}

func (h *DiligenceHandler) Update(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	attrs, cleanup, err := diligenceAttrs(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload"})
		return
	}
	defer cleanup()

	dd, err := h.diligence.Update(id, user, attrs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dd)
}

func (h *DiligenceHandler) Delete(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.diligence.Delete(id, user); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type commentForm struct {
	Content string `form:"content" json:"content"`
}

func (h *DiligenceHandler) CreateComment(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	ddID, ok := idParam(c)
	if !ok {
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := h.diligence.AddComment(ddID, user, form.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *DiligenceHandler) DeleteComment(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.diligence.DeleteComment(id, user); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
