package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/notblessy/invoicegen/utils"
	"github.com/sirupsen/logrus"
)

const maxLogoSize = 5 * 1024 * 1024

var allowedLogoTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

type logoHandler struct {
	uploader utils.LogoUploader
}

func NewLogoHandler(uploader utils.LogoUploader) *logoHandler {
	return &logoHandler{uploader: uploader}
}

type logoResponse struct {
	Logo string `json:"logo"`
}

type removeLogoRequest struct {
	Logo string `json:"logo" query:"logo"`
}

// UploadLogo stores a company logo and returns the URL to put into companyInfo.logo
func (h *logoHandler) UploadLogo(c echo.Context) error {
	logger := logrus.WithField("endpoint", "upload_logo")

	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, response{
			Success: false,
			Message: "image upload service is not configured",
		})
	}

	// Get the uploaded file
	file, err := c.FormFile("logo")
	if err != nil {
		logger.Errorf("Error getting file: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "logo file is required",
		})
	}

	if file.Size > maxLogoSize {
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "file size must be less than 5MB",
		})
	}

	if !allowedLogoTypes[file.Header.Get("Content-Type")] {
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "file must be an image (jpeg, png, gif, webp or svg)",
		})
	}

	src, err := file.Open()
	if err != nil {
		logger.Errorf("Error opening file: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to read file",
		})
	}
	defer src.Close()

	logoURL, err := h.uploader.UploadLogo(c.Request().Context(), src, "logo-"+uuid.NewString())
	if err != nil {
		logger.Errorf("Error uploading logo: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to upload logo",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "logo uploaded successfully",
		Data:    logoResponse{Logo: logoURL},
	})
}

// RemoveLogo deletes a previously uploaded logo by its URL
func (h *logoHandler) RemoveLogo(c echo.Context) error {
	logger := logrus.WithField("endpoint", "remove_logo")

	if h.uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, response{
			Success: false,
			Message: "image upload service is not configured",
		})
	}

	var req removeLogoRequest
	if err := c.Bind(&req); err != nil {
		logger.Errorf("Error binding request: %v", err)
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "invalid request",
		})
	}

	publicID := utils.PublicIDFromURL(req.Logo)
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, response{
			Success: false,
			Message: "logo url is not a recognized upload url",
		})
	}

	if err := h.uploader.DeleteLogo(c.Request().Context(), publicID); err != nil {
		logger.Warnf("Failed to delete logo from Cloudinary: %v", err)
		return c.JSON(http.StatusInternalServerError, response{
			Success: false,
			Message: "failed to remove logo",
		})
	}

	return c.JSON(http.StatusOK, response{
		Success: true,
		Message: "logo removed successfully",
	})
}
