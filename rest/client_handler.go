package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/clientdesk/clientdesk/service"
	"github.com/gin-gonic/gin"
)

// ClientHandler exposes the client CRUD surface. Handlers hold no logic
// beyond invoking the matching service operation and shaping the response.
type ClientHandler struct {
	svc service.ClientService
}

func NewClientHandler(svc service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) Register(r gin.IRoutes) {
	r.GET("/clients", h.listAll)
	r.GET("/clients/with-orders", h.listAllWithOrders)
	r.GET("/clients/:id", h.getByID)
	r.POST("/clients", h.create)
	r.PUT("/clients/:id", h.update)
	r.DELETE("/clients/:id", h.delete)
}

func (h *ClientHandler) listAll(c *gin.Context) {
	clients, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) listAllWithOrders(c *gin.Context) {
	clients, err := h.svc.ListAllWithOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) getByID(c *gin.Context) {
	id, err := pathID(c, "client not found")
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

func (h *ClientHandler) create(c *gin.Context) {
	var in service.ClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(&service.ValidationError{Message: "invalid request body"})
		return
	}
	vm, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/v1/clients/%d", vm.ID))
	c.JSON(http.StatusCreated, vm)
}

func (h *ClientHandler) update(c *gin.Context) {
	id, err := pathID(c, "client not found")
	if err != nil {
		return
	}
	var in service.ClientInput
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

func (h *ClientHandler) delete(c *gin.Context) {
	id, err := pathID(c, "client not found")
	if err != nil {
		return
	}
	if err = h.svc.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// pathID parses the :id segment. A non-numeric id is reported as not-found to
// match route-constraint behavior (the route simply would not exist).
func pathID(c *gin.Context, notFoundMsg string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		err = &service.NotFoundError{Message: notFoundMsg}
		_ = c.Error(err)
		return 0, err
	}
	return id, nil
}
