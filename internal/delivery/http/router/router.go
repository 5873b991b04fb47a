// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"sharegarden/internal/delivery/http/middleware"
	"sharegarden/internal/delivery/http/router/handler"
)

// RouterParams holds every handler the router registers, injected by Fx.
type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	ItemHandler     *handler.ItemHandler
	ItemTypeHandler *handler.ItemTypeHandler
	AdminHandler    *handler.AdminHandler
	UploadHandler   *handler.UploadHandler
	SystemHandler   *handler.SystemHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params
	authed := p.AuthMiddleware.Authenticate
	adminOnly := p.AuthMiddleware.RequireAdmin

	e.GET("/health", p.SystemHandler.Health)

	// Liveness channel used by the front-end; unauthenticated on purpose,
	// a closing page cannot be asked to refresh tokens first.
	e.POST("/heartbeat", p.SystemHandler.Heartbeat)
	e.POST("/shutdown", p.SystemHandler.Shutdown)

	// Accounts
	e.POST("/register", p.AccountHandler.Register)
	e.POST("/login", p.AccountHandler.Login)
	e.POST("/refresh", p.AccountHandler.Refresh)

	userGroup := e.Group("/users", authed)
	{
		userGroup.GET("/:id", p.AccountHandler.GetProfile)
		userGroup.PUT("/:id", p.AccountHandler.UpdateProfile)
		userGroup.DELETE("/:id", p.AccountHandler.DeleteAccount)
	}

	// Browsing is public; only type administration is gated.
	e.GET("/types", p.ItemTypeHandler.ListTypes)
	typeGroup := e.Group("/types", authed, adminOnly)
	{
		typeGroup.POST("", p.ItemTypeHandler.CreateType)
		typeGroup.PUT("/:id", p.ItemTypeHandler.UpdateType)
		typeGroup.DELETE("/:id", p.ItemTypeHandler.DeleteType)
	}

	e.GET("/items", p.ItemHandler.ListItems)
	e.GET("/items/:id", p.ItemHandler.GetItem)
	itemGroup := e.Group("/items", authed)
	{
		itemGroup.POST("", p.ItemHandler.CreateItem)
		itemGroup.PUT("/:id", p.ItemHandler.UpdateItem)
		itemGroup.DELETE("/:id", p.ItemHandler.DeleteItem)
	}

	e.POST("/upload", p.UploadHandler.Upload, authed)

	adminGroup := e.Group("/admin", authed, adminOnly)
	{
		adminGroup.GET("/users", p.AdminHandler.ListUsers)
		adminGroup.DELETE("/users/:id", p.AdminHandler.DeleteUser)
		adminGroup.POST("/approve/:id", p.AdminHandler.ReviewUser)
		adminGroup.POST("/promote/:id", p.AdminHandler.PromoteUser)
		adminGroup.POST("/demote/:id", p.AdminHandler.DemoteUser)
		adminGroup.POST("/reset-db", p.AdminHandler.ResetDatabase)
	}
}
