package controllers

import (
	"errors"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type RegisterReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := ac.Auth.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			resp.BadRequest(c, "email already registered")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, gin.H{"id": user.ID, "name": user.Name, "email": user.Email})
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, user, err := ac.Auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			resp.Unauthorized(c, "invalid email or password")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email, "role": user.Role},
	})
}

// GET /auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.Auth.Me(utils.CurrentUserID(c))
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}
	resp.OK(c, gin.H{"id": user.ID, "name": user.Name, "email": user.Email, "role": user.Role})
}

type ActivateOrganizationReq struct {
	OrganizationID string `json:"organizationId" binding:"required"`
}

// POST /auth/organization/activate re-issues the token with another
// organization as the active one.
func (ac *AuthController) ActivateOrganization(c *gin.Context) {
	var req ActivateOrganizationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, err := ac.Auth.ActivateOrganization(utils.CurrentUserID(c), req.OrganizationID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			resp.Forbidden(c, "not a member of this organization")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"token": token})
}
