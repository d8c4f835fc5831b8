package controllers

import (
	"errors"
	"time"

	"github.com/ahmadnurfadilah/chattable/pkg/resp"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders    *services.OrderService
	Dashboard *services.DashboardService
}

func NewOrderController(orders *services.OrderService, dashboard *services.DashboardService) *OrderController {
	return &OrderController{Orders: orders, Dashboard: dashboard}
}

// GET /orders?status=&date=YYYY-MM-DD
func (oc *OrderController) List(c *gin.Context) {
	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			resp.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		day = &d
	}

	views, err := oc.Orders.List(utils.CurrentOrganizationID(c), c.Query("status"), day)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, views)
}

// GET /orders/:id
func (oc *OrderController) Get(c *gin.Context) {
	v, err := oc.Orders.Get(utils.CurrentOrganizationID(c), c.Param("id"))
	if err != nil {
		resp.NotFound(c, "order not found")
		return
	}
	resp.OK(c, v)
}

type UpdateOrderStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := oc.Orders.UpdateStatus(utils.CurrentOrganizationID(c), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			resp.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrNotFound):
			resp.NotFound(c, "order not found")
		default:
			resp.ServerError(c, err)
		}
		return
	}
	resp.OK(c, order)
}

// GET /dashboard/stats
func (oc *OrderController) DashboardStats(c *gin.Context) {
	stats, err := oc.Dashboard.Stats(utils.CurrentOrganizationID(c))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, stats)
}
