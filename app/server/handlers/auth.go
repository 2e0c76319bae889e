package handlers

import (
	"errors"
	"net/http"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KrishSaraf/manj-book/app/server/middlewares"
	"github.com/KrishSaraf/manj-book/app/server/models"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind login request", zap.Error(err))
		return a.erMsg(c, http.StatusBadRequest, "Username and password are required")
	}

	if req.Username == "" || req.Password == "" {
		return a.erMsg(c, http.StatusBadRequest, "Username and password are required")
	}

	// Unknown username and wrong password answer identically so the endpoint
	// cannot be used to enumerate accounts.
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "username = ?", req.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.erMsg(c, http.StatusUnauthorized, "Invalid credentials")
		}
		a.l.Error("failed to find user", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	if match, _, err := argon2id.CheckHash(req.Password, user.Password); err != nil {
		a.l.Error("failed to check password", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	} else if !match {
		return a.erMsg(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := a.jwt.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userToResponse(&user),
	})
}

func (a *App) AuthVerify(c echo.Context) error {
	claims := middlewares.Claims(c)
	if claims == nil {
		return a.erMsg(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"valid": true,
		"user": &userResponse{
			ID:       claims.ID,
			Username: claims.Username,
			Role:     claims.Role,
		},
	})
}

func (a *App) AuthProfile(c echo.Context) error {
	claims := middlewares.Claims(c)
	if claims == nil {
		return a.erMsg(c, http.StatusUnauthorized, "Access denied. No token provided.")
	}

	rctx := c.Request().Context()

	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", claims.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.erMsg(c, http.StatusNotFound, "User not found")
		}
		a.l.Error("failed to get user", zap.Uint("id", claims.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userToResponse(&user))
}
