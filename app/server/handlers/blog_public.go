package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/KrishSaraf/manj-book/app/server/blog"
	"github.com/KrishSaraf/manj-book/app/server/models"
)

func (a *App) listQuery(c echo.Context, includeUnpublished bool) blog.ListQuery {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	return blog.ListQuery{
		Page:               page,
		Limit:              limit,
		Category:           c.QueryParam("category"),
		Search:             c.QueryParam("search"),
		IncludeUnpublished: includeUnpublished,
	}
}

func (a *App) PostList(c echo.Context) error {
	rctx := c.Request().Context()

	posts, pagination, err := a.blog.List(rctx, a.listQuery(c, false))
	if err != nil {
		a.l.Error("failed to list posts", zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error fetching blog posts")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"posts":      postsToResponse(posts),
		"pagination": pagination,
	})
}

func (a *App) PostGet(c echo.Context) error {
	rctx := c.Request().Context()

	idUint64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	post, err := a.blog.Get(rctx, uint(idUint64), a.callerIsAdmin(c))
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return a.erMsg(c, http.StatusNotFound, "Blog post not found")
		}
		a.l.Error("failed to get post", zap.Uint64("id", idUint64), zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error fetching blog post")
	}

	return c.JSON(http.StatusOK, postToResponse(post))
}

func (a *App) CategoryList(c echo.Context) error {
	rctx := c.Request().Context()

	categories, err := a.blog.Categories(rctx, false)
	if err != nil {
		a.l.Error("failed to list categories", zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error fetching categories")
	}

	return c.JSON(http.StatusOK, categories)
}

// callerIsAdmin is a best-effort check on public routes: a valid admin token
// widens the visible set to drafts, anything else stays public-only.
func (a *App) callerIsAdmin(c echo.Context) bool {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return false
	}

	splits := strings.Split(authHeader, " ")
	if len(splits) != 2 || !strings.EqualFold(splits[0], "bearer") {
		return false
	}

	claims, err := a.jwt.Parse(splits[1])
	if err != nil {
		return false
	}

	return claims.Role == models.RoleAdmin
}
