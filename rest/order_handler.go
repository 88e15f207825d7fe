package rest

import (
	"fmt"
	"net/http"

	"github.com/clientdesk/clientdesk/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler exposes the order CRUD surface.
type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) Register(r gin.IRoutes) {
	r.GET("/orders", h.listAll)
	r.GET("/orders/:id", h.getByID)
	r.POST("/orders", h.create)
	r.PUT("/orders/:id", h.update)
	r.DELETE("/orders/:id", h.delete)
}

func (h *OrderHandler) listAll(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "order not found")
	if err != nil {
		return
	}
	vm, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, vm)
}

func (h *OrderHandler) create(c *gin.Context) {
	var in service.OrderCreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(&service.ValidationError{Message: "invalid request body"})
		return
	}
	vm, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/orders/%d", vm.ID))
	c.JSON(http.StatusCreated, vm)
}

func (h *OrderHandler) update(c *gin.Context) {
	id, err := pathID(c, "order not found")
	if err != nil {
		return
	}
	var in service.OrderUpdateInput
	if err = c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(&service.ValidationError{Message: "invalid request body"})
		return
	}
	vm, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, vm)
}

func (h *OrderHandler) delete(c *gin.Context) {
	id, err := pathID(c, "order not found")
	if err != nil {
		return
	}
	if err = h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
