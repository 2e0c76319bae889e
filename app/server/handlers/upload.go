package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/KrishSaraf/manj-book/app/server/constants"
)

// saveUploadedImage stores the image file posted under the given multipart
// field and returns its public reference. A request without that field is not
// an error; the reference is just nil.
func (a *App) saveUploadedImage(c echo.Context, field string) (*string, error, int) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, http.StatusOK
		}
		return nil, fmt.Errorf("invalid multipart form"), http.StatusBadRequest
	}

	if fileHeader.Size > constants.MaxUploadSize {
		return nil, fmt.Errorf("Image file too large (max 5MB)"), http.StatusRequestEntityTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if !constants.AllowedImageExtensions[ext] || !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("Only image files are allowed"), http.StatusBadRequest
	}

	src, err := fileHeader.Open()
	if err != nil {
		a.l.Error("failed to open uploaded file", zap.Error(err))
		return nil, fmt.Errorf("Error uploading image"), http.StatusInternalServerError
	}
	defer src.Close()

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.l.Error("failed to create upload dir", zap.String("dir", a.uploadDir), zap.Error(err))
		return nil, fmt.Errorf("Error uploading image"), http.StatusInternalServerError
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(a.uploadDir, name))
	if err != nil {
		a.l.Error("failed to create stored file", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("Error uploading image"), http.StatusInternalServerError
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		a.l.Error("failed to write stored file", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("Error uploading image"), http.StatusInternalServerError
	}

	ref := constants.UploadURLPrefix + name
	return &ref, nil, http.StatusOK
}

// UploadImage is the standalone upload endpoint: it stores the image and
// hands back the URL for use in post content.
func (a *App) UploadImage(c echo.Context) error {
	imageRef, err, statusCode := a.saveUploadedImage(c, "image")
	if err != nil {
		return a.erMsg(c, statusCode, err.Error())
	}
	if imageRef == nil {
		return a.erMsg(c, http.StatusBadRequest, "No image file provided")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Image uploaded successfully",
		"imageUrl": *imageRef,
	})
}
