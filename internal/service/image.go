package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/platewise/backend/config"
)

// MaxImageBytes is the largest meal photo the API accepts.
const MaxImageBytes = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService validates meal photos and stores them in S3.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// ValidateImage checks size and sniffed content type before any bytes
// leave the process. The declared Content-Type header is advisory;
// the sniffed type wins.
func (s *ImageService) ValidateImage(data []byte) (mimeType string, err error) {
	if len(data) == 0 {
		return "", NewInputError("image", "no image data provided")
	}
	if len(data) > MaxImageBytes {
		return "", NewInputError("image", fmt.Sprintf("image exceeds the %dMB limit", MaxImageBytes>>20))
	}

	mimeType = http.DetectContentType(data)
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return "", NewInputError("image", fmt.Sprintf("unsupported image type %s; use JPEG, PNG or WebP", mimeType))
	}
	return mimeType, nil
}

// UploadMealImage uploads a validated meal photo to S3 and returns the
// public URL. A nil S3 config (local development) skips storage and
// returns an empty URL.
func (s *ImageService) UploadMealImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if s.s3Config == nil || s.s3Config.Client == nil {
		log.Printf("[ImageService] S3 not configured, skipping meal photo upload")
		return "", nil
	}

	ext := allowedImageTypes[mimeType]
	fileName := fmt.Sprintf("meal-photos/%s%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded meal photo to S3: %s", publicURL)

	return publicURL, nil
}
