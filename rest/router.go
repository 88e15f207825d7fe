package rest

import (
	"net/http"

	"github.com/clientdesk/clientdesk/app"
	"github.com/clientdesk/clientdesk/service"
	"github.com/clientdesk/clientdesk/web"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the gin engine: request logging, panic recovery, CORS,
// centralized error mapping, the /api/v1 resource routes and the embedded
// browser client on every unmatched path.
func NewRouter(clients service.ClientService, orders service.OrderService, cfg app.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(CORS(cfg.CORSOrigin))
	r.Use(ErrorHandler())

	api := r.Group("/api/v1")
	NewClientHandler(clients).Register(api)
	NewOrderHandler(orders).Register(api)

	// The SPA owns everything the API does not.
	r.NoRoute(gin.WrapH(http.FileServer(web.FS())))

	return r
}
