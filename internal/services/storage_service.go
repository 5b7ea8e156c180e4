// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/i18n"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

const (
	productImageFolder = "products"
	maxImageSize       = 10 * 1024 * 1024 // 10MB
	s3ImagesPrefix     = "images/"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// StorageService stores product images in S3, or under a local directory
// when no AWS credentials are configured. Either way the caller gets back a
// logical path relative to the images root; URLs are built per request by
// the imageurl resolver.
type StorageService struct {
	s3Client s3iface.S3API
	bucket   string
	localDir string
}

type UploadResult struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local development
		return &StorageService{localDir: cfg.AWS.LocalUploadDir}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		bucket:   cfg.AWS.S3Bucket,
	}, nil
}

// NewLocalStorageService writes images below dir.
func NewLocalStorageService(dir string) *StorageService {
	return &StorageService{localDir: dir}
}

// NewS3StorageService uses an existing S3 client.
func NewS3StorageService(client s3iface.S3API, bucket string) *StorageService {
	return &StorageService{s3Client: client, bucket: bucket}
}

// LocalDir is the directory images are written to, or "" when using S3.
func (s *StorageService) LocalDir() string {
	if s.s3Client != nil {
		return ""
	}
	return s.localDir
}

// UploadImage validates and stores one image. The object is keyed by the
// content hash, so uploading the same file twice yields the same path.
func (s *StorageService) UploadImage(ctx context.Context, r io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, apperrors.Validation("file is empty", nil)
	}
	if len(data) > maxImageSize {
		return nil, apperrors.Validation(
			fmt.Sprintf("file exceeds maximum allowed size of %d bytes", maxImageSize),
			map[string]interface{}{"max_size": maxImageSize},
		).WithKey(i18n.KeyFileTooLarge)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, apperrors.Validation(
			fmt.Sprintf("file type %s is not allowed", mtype.String()),
			map[string]interface{}{"allowed_types": allowedImageTypes},
		).WithKey(i18n.KeyFileInvalidType)
	}

	logical := path.Join(productImageFolder, utils.HashBytes(data)+mtype.Extension())

	if s.s3Client != nil {
		err = s.putS3(ctx, logical, data, mtype.String())
	} else {
		err = s.putLocal(logical, data)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":      logical,
		"size":      len(data),
		"mime_type": mtype.String(),
	}).Info("Image stored")

	return &UploadResult{
		Path:     logical,
		Size:     int64(len(data)),
		MimeType: mtype.String(),
	}, nil
}

// DeleteImage removes a stored image by its logical path.
func (s *StorageService) DeleteImage(ctx context.Context, logical string) error {
	logical, err := cleanLogicalPath(logical)
	if err != nil {
		return err
	}

	if s.s3Client == nil {
		if err := os.Remove(filepath.Join(s.localDir, filepath.FromSlash(logical))); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	_, err = s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3ImagesPrefix + logical),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) putS3(ctx context.Context, logical string, data []byte, contentType string) error {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s3ImagesPrefix + logical),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *StorageService) putLocal(logical string, data []byte) error {
	target := filepath.Join(s.localDir, filepath.FromSlash(logical))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func cleanLogicalPath(logical string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(logical))
	if cleaned == "/" || !strings.HasPrefix(cleaned, "/"+productImageFolder+"/") {
		return "", apperrors.Validation("invalid image path", map[string]interface{}{"path": logical})
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
