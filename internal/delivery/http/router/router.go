// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"
	"taskhub/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	TaskHandler    *handler.TaskHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	taskHandler    *handler.TaskHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		taskHandler:    params.TaskHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.GET("/me", r.authHandler.Profile, r.authMiddleware.Authenticate)
	}

	// Task routes, all behind authentication
	taskGroup := api.Group("/tasks")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.POST("", r.taskHandler.Create)
		taskGroup.GET("", r.taskHandler.List)
		taskGroup.GET("/:id", r.taskHandler.Get)
		taskGroup.PUT("/:id", r.taskHandler.Update)
		taskGroup.DELETE("/:id", r.taskHandler.Delete)
	}

	// Admin routes require authentication and the "admin" role
	adminGroup := api.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/users", r.authHandler.ListUsers)
	}
}
