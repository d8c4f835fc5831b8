package controllers

import (
	"errors"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/gin-gonic/gin"
)

// PublicController serves the unauthenticated endpoints the voice agent's
// tooling calls while a conversation is running.
type PublicController struct {
	Menus     *services.MenuService
	Knowledge *services.KnowledgeService
}

func NewPublicController(menus *services.MenuService, knowledge *services.KnowledgeService) *PublicController {
	return &PublicController{Menus: menus, Knowledge: knowledge}
}

// GET /api/:organizationId/menu — available items only, grouped by category
// rank so the agent reads the menu in display order.
func (pc *PublicController) Menu(c *gin.Context) {
	rows, err := pc.Menus.PublicMenu(c.Param("organizationId"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "organization not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, rows)
}

// GET /api/:organizationId/knowledge?query= — retrieval over the tenant's
// knowledge base, serialized for the agent's context window.
func (pc *PublicController) RetrieveKnowledge(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		resp.BadRequest(c, "query is required")
		return
	}

	context, err := pc.Knowledge.Retrieve(c.Request.Context(), c.Param("organizationId"), query)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "organization not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"context": context})
}
