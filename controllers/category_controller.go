package controllers

import (
	"errors"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{Categories: categories}
}

// GET /categories
func (cc *CategoryController) List(c *gin.Context) {
	cats, err := cc.Categories.List(utils.CurrentOrganizationID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, cats)
}

type CategoryReq struct {
	Name string `json:"name" binding:"required"`
}

// POST /categories
func (cc *CategoryController) Create(c *gin.Context) {
	var req CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	cat, err := cc.Categories.Create(utils.CurrentOrganizationID(c), req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayload) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, cat)
}

// PATCH /categories/:id
func (cc *CategoryController) Rename(c *gin.Context) {
	var req CategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	err := cc.Categories.Rename(utils.CurrentOrganizationID(c), c.Param("id"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayload):
			resp.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrNotFound):
			resp.NotFound(c, "category not found")
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id"), "name": req.Name})
}

type ReorderReq struct {
	CategoryIDs []string `json:"categoryIds" binding:"required,min=1"`
}

// PUT /categories/reorder
func (cc *CategoryController) Reorder(c *gin.Context) {
	var req ReorderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := cc.Categories.Reorder(utils.CurrentOrganizationID(c), req.CategoryIDs); err != nil {
		if errors.Is(err, services.ErrInvalidPayload) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"reordered": len(req.CategoryIDs)})
}

// DELETE /categories/:id
func (cc *CategoryController) Delete(c *gin.Context) {
	err := cc.Categories.Delete(utils.CurrentOrganizationID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "category not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
