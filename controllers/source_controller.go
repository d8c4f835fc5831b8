package controllers

import (
	"errors"
	"io"
	"strconv"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
)

// maxUploadSize caps knowledge-base uploads at 10 MB.
const maxUploadSize = 10 << 20

type SourceController struct {
	Knowledge *services.KnowledgeService
}

func NewSourceController(knowledge *services.KnowledgeService) *SourceController {
	return &SourceController{Knowledge: knowledge}
}

type CreateTextSourceReq struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// POST /sources/text
func (sc *SourceController) CreateText(c *gin.Context) {
	var req CreateTextSourceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	source, err := sc.Knowledge.CreateTextSource(c.Request.Context(), utils.CurrentOrganizationID(c), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayload) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, source)
}

// POST /sources/file — multipart upload under the "file" field.
func (sc *SourceController) CreateFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		resp.BadRequest(c, "file is required")
		return
	}
	if header.Size > maxUploadSize {
		resp.BadRequest(c, "file exceeds 10MB limit")
		return
	}

	f, err := header.Open()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	source, err := sc.Knowledge.CreateFileSource(c.Request.Context(), utils.CurrentOrganizationID(c), header.Filename, mimeType, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedType), errors.Is(err, services.ErrInvalidPayload):
			resp.BadRequest(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.Created(c, source)
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// GET /sources/text
func (sc *SourceController) ListText(c *gin.Context) {
	page, pageSize := pagination(c)
	sources, total, err := sc.Knowledge.ListTextSources(utils.CurrentOrganizationID(c), page, pageSize)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"sources": sources, "total": total, "page": page, "pageSize": pageSize})
}

// GET /sources/file
func (sc *SourceController) ListFiles(c *gin.Context) {
	page, pageSize := pagination(c)
	sources, total, err := sc.Knowledge.ListFileSources(utils.CurrentOrganizationID(c), page, pageSize)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"sources": sources, "total": total, "page": page, "pageSize": pageSize})
}

// DELETE /sources/:id
func (sc *SourceController) Delete(c *gin.Context) {
	err := sc.Knowledge.DeleteSource(utils.CurrentOrganizationID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "source not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
