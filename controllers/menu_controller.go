package controllers

import (
	"errors"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{Menus: menus}
}

// GET /menus
func (mc *MenuController) List(c *gin.Context) {
	rows, err := mc.Menus.List(utils.CurrentOrganizationID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// GET /menus/:id
func (mc *MenuController) Get(c *gin.Context) {
	m, err := mc.Menus.Get(utils.CurrentOrganizationID(c), c.Param("id"))
	if err != nil {
		resp.NotFound(c, "menu not found")
		return
	}
	resp.OK(c, m)
}

// POST /menus
func (mc *MenuController) Create(c *gin.Context) {
	var in services.MenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	m, err := mc.Menus.Create(utils.CurrentOrganizationID(c), &in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayload) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, m)
}

// PUT /menus/:id
func (mc *MenuController) Update(c *gin.Context) {
	var in services.MenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	m, err := mc.Menus.Update(utils.CurrentOrganizationID(c), c.Param("id"), &in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			resp.NotFound(c, "menu not found")
		case errors.Is(err, services.ErrInvalidPayload):
			resp.BadRequest(c, err.Error())
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, m)
}

// DELETE /menus/:id
func (mc *MenuController) Delete(c *gin.Context) {
	err := mc.Menus.Delete(utils.CurrentOrganizationID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "menu not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
