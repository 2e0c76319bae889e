package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KrishSaraf/manj-book/app/server/middlewares"
)

func (a *App) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", a.Health)

	auth := api.Group("/auth")
	auth.POST("/login", a.AuthLogin)
	auth.GET("/verify", a.AuthVerify, middlewares.TokenAuth(a.jwt))
	auth.GET("/profile", a.AuthProfile, middlewares.TokenAuth(a.jwt))

	bg := api.Group("/blog")
	bg.GET("/posts", a.PostList)
	bg.GET("/posts/:id", a.PostGet)
	bg.GET("/categories", a.CategoryList)

	admin := bg.Group("/admin", middlewares.TokenAuth(a.jwt), middlewares.RequireAdmin())
	admin.GET("/posts", a.AdminPostList)
	admin.POST("/posts", a.AdminPostCreate)
	admin.PUT("/posts/:id", a.AdminPostUpdate)
	admin.DELETE("/posts/:id", a.AdminPostDelete)
	admin.POST("/upload", a.UploadImage)
}

func (a *App) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
