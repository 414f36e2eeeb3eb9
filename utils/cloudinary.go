package utils

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sirupsen/logrus"
)

const logoFolder = "invoicegen/company-logos"

var versionSegment = regexp.MustCompile(`^v\d+$`)

// LogoUploader stores company logos and returns the URL that goes into CompanyInfo.Logo.
type LogoUploader interface {
	UploadLogo(ctx context.Context, file io.Reader, publicID string) (string, error)
	DeleteLogo(ctx context.Context, publicID string) error
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudinaryURL string) (*CloudinaryService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is not set")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) UploadLogo(ctx context.Context, file io.Reader, publicID string) (string, error) {
	overwrite := true
	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         logoFolder,
		AllowedFormats: []string{"jpg", "jpeg", "png", "gif", "webp", "svg"},
		ResourceType:   "image",
		Overwrite:      &overwrite,
	})
	if err != nil {
		logrus.Errorf("Cloudinary upload error: %v", err)
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("failed to upload logo: %s", uploadResult.Error.Message)
	}

	return uploadResult.SecureURL, nil
}

func (s *CloudinaryService) DeleteLogo(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		logrus.Errorf("Cloudinary delete error: %v", err)
		return fmt.Errorf("failed to delete logo: %w", err)
	}

	return nil
}

// PublicIDFromURL extracts "{folder}/{public_id}" from a delivery URL of the form
// https://res.cloudinary.com/{cloud}/image/upload/v{version}/{folder}/{public_id}.{format}
func PublicIDFromURL(url string) string {
	parts := strings.SplitN(url, "/upload/", 2)
	if len(parts) < 2 {
		return ""
	}

	pathParts := strings.Split(parts[1], "/")
	if len(pathParts) > 1 && versionSegment.MatchString(pathParts[0]) {
		pathParts = pathParts[1:]
	}
	if len(pathParts) == 0 || pathParts[len(pathParts)-1] == "" {
		return ""
	}

	filename := pathParts[len(pathParts)-1]
	if ext := strings.LastIndex(filename, "."); ext > 0 {
		filename = filename[:ext]
	}
	pathParts[len(pathParts)-1] = filename

	return strings.Join(pathParts, "/")
}
