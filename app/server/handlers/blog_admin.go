package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/KrishSaraf/manj-book/app/server/blog"
	"github.com/KrishSaraf/manj-book/app/server/middlewares"
	"github.com/KrishSaraf/manj-book/app/server/utils"
)

func (a *App) AdminPostList(c echo.Context) error {
	rctx := c.Request().Context()

	posts, pagination, err := a.blog.List(rctx, a.listQuery(c, true))
	if err != nil {
		a.l.Error("failed to list admin posts", zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error fetching posts")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"posts":      postsToResponse(posts),
		"pagination": pagination,
	})
}

func (a *App) AdminPostCreate(c echo.Context) error {
	rctx := c.Request().Context()

	claims := middlewares.Claims(c)
	if claims == nil {
		return a.erMsg(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}

	imageRef, err, statusCode := a.saveUploadedImage(c, "featured_image")
	if err != nil {
		return a.erMsg(c, statusCode, err.Error())
	}

	post, err := a.blog.Create(rctx, blog.Input{
		Title:       c.FormValue("title"),
		Content:     c.FormValue("content"),
		Excerpt:     c.FormValue("excerpt"),
		Category:    c.FormValue("category"),
		Tags:        c.FormValue("tags"),
		IsPublished: c.FormValue("is_published"),
		FeatureImg:  imageRef,
	}, claims.ID)
	if err != nil {
		if errors.Is(err, blog.ErrMissingField) {
			return a.erMsg(c, http.StatusBadRequest, "Title and content are required")
		}
		a.l.Error("failed to create post", zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error creating blog post")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Blog post created successfully",
		"post":    postToResponse(post),
	})
}

func (a *App) AdminPostUpdate(c echo.Context) error {
	rctx := c.Request().Context()

	idUint64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	imageRef, err, statusCode := a.saveUploadedImage(c, "featured_image")
	if err != nil {
		return a.erMsg(c, statusCode, err.Error())
	}

	// Only fields present in the form overwrite; an untouched field keeps its
	// stored value.
	in := blog.UpdateInput{FeatureImg: imageRef}
	if form, err := c.FormParams(); err == nil {
		if form.Has("title") {
			in.Title = utils.P(c.FormValue("title"))
		}
		if form.Has("content") {
			in.Content = utils.P(c.FormValue("content"))
		}
		if form.Has("excerpt") {
			in.Excerpt = utils.P(c.FormValue("excerpt"))
		}
		if form.Has("category") {
			in.Category = utils.P(c.FormValue("category"))
		}
		if form.Has("tags") {
			in.Tags = utils.P(c.FormValue("tags"))
		}
		if form.Has("is_published") {
			in.IsPublished = utils.P(c.FormValue("is_published"))
		}
	}

	post, err := a.blog.Update(rctx, uint(idUint64), in)
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return a.erMsg(c, http.StatusNotFound, "Blog post not found")
		}
		if errors.Is(err, blog.ErrMissingField) {
			return a.erMsg(c, http.StatusBadRequest, "Title and content are required")
		}
		a.l.Error("failed to update post", zap.Uint64("id", idUint64), zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error updating blog post")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Blog post updated successfully",
		"post":    postToResponse(post),
	})
}

func (a *App) AdminPostDelete(c echo.Context) error {
	rctx := c.Request().Context()

	idUint64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return a.er(c, http.StatusBadRequest)
	}

	if err := a.blog.Delete(rctx, uint(idUint64)); err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			return a.erMsg(c, http.StatusNotFound, "Blog post not found")
		}
		a.l.Error("failed to delete post", zap.Uint64("id", idUint64), zap.Error(err))
		return a.erMsg(c, http.StatusInternalServerError, "Error deleting blog post")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Blog post deleted successfully",
	})
}
