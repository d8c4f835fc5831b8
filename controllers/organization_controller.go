package controllers

import (
	"errors"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
)

type OrganizationController struct {
	Orgs *services.OrganizationService
}

func NewOrganizationController(orgs *services.OrganizationService) *OrganizationController {
	return &OrganizationController{Orgs: orgs}
}

type CreateOrganizationReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// POST /organizations
func (oc *OrganizationController) Create(c *gin.Context) {
	var req CreateOrganizationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	org, err := oc.Orgs.Create(utils.CurrentUserID(c), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPayload) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, org)
}

// GET /organizations
func (oc *OrganizationController) List(c *gin.Context) {
	orgs, err := oc.Orgs.ListForUser(utils.CurrentUserID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orgs)
}

// GET /organizations/current
func (oc *OrganizationController) Current(c *gin.Context) {
	orgID := utils.CurrentOrganizationID(c)
	if orgID == "" {
		resp.NotFound(c, "no active organization")
		return
	}
	org, err := oc.Orgs.Get(orgID)
	if err != nil {
		resp.NotFound(c, "organization not found")
		return
	}
	resp.OK(c, org)
}

type UpdateSettingsReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

// PATCH /organizations/settings
func (oc *OrganizationController) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	org, err := oc.Orgs.UpdateSettings(utils.CurrentOrganizationID(c), req.Name, req.Description, req.Logo)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			resp.NotFound(c, "organization not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, org)
}

type BindAgentReq struct {
	AgentID string `json:"agentId" binding:"required"`
}

// POST /organizations/agent binds the tenant's voice agent so incoming
// webhooks can be routed back to it.
func (oc *OrganizationController) BindAgent(c *gin.Context) {
	var req BindAgentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := oc.Orgs.BindAgent(utils.CurrentOrganizationID(c), req.AgentID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayload):
			resp.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrNotFound):
			resp.NotFound(c, "organization not found")
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, gin.H{"agentId": req.AgentID})
}
