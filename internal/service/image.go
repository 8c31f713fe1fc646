package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/recipe-api/backend/config"
	log "github.com/sirupsen/logrus"
)

// ImageKeyPrefix is the directory every uploaded recipe image is stored under
const ImageKeyPrefix = "uploads/recipe"

// MaxImagePixels bounds width*height of an accepted upload
const MaxImagePixels = 89478485

const (
	msgNoImage        = "No file was submitted."
	msgInvalidImage   = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooLarge  = "Upload a smaller image. The image dimensions are too large."
	msgImageExtension = "File extension \"%s\" is not allowed. Allowed extensions are: gif, jpeg, jpg, png."
)

var imageExtensions = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

// ImageStore persists image bytes and knows the public URL of a stored key
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) error
	URL(key string) string
}

// NewImageStore returns the store selected by cfg.StorageBackend
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3: %w", err)
		}
		return NewS3ImageStore(s3Config.Client, s3Config.BucketName), nil
	default:
		return NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL), nil
	}
}

// LocalImageStore writes images below a directory that is served over HTTP
type LocalImageStore struct {
	root    string
	baseURL string
}

// NewLocalImageStore creates a LocalImageStore rooted at root and served at baseURL
func NewLocalImageStore(root, baseURL string) *LocalImageStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalImageStore{root: root, baseURL: baseURL}
}

func (s *LocalImageStore) Save(ctx context.Context, key, contentType string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

func (s *LocalImageStore) URL(key string) string {
	return s.baseURL + key
}

// S3PutObjectAPI is the part of the S3 client the image store needs
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads images to a public S3 bucket
type S3ImageStore struct {
	client S3PutObjectAPI
	bucket string
}

// NewS3ImageStore creates an S3ImageStore for bucket
func NewS3ImageStore(client S3PutObjectAPI, bucket string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket}
}

func (s *S3ImageStore) Save(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	log.WithFields(log.Fields{"bucket": s.bucket, "key": key}).Debug("Uploaded image to S3")
	return nil
}

func (s *S3ImageStore) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// detectImage fully decodes data and returns its decoder name ("jpeg", "png", "gif").
// The header is checked first so oversized images are refused before allocation.
func detectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", NewValidationError("image", msgNoImage)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return "", NewValidationError("image", msgInvalidImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return "", NewValidationError("image", msgImageTooLarge)
	}
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", NewValidationError("image", msgInvalidImage)
	}
	return format, nil
}

// imageKey builds the storage key for an upload. The client's extension is kept
// when it is an image extension; without one the decoded format decides.
func imageKey(id, filename, format string) (string, error) {
	ext := strings.ToLower(path.Ext(filepath.Base(filename)))
	if ext == "" {
		ext = "." + format
		if format == "jpeg" {
			ext = ".jpg"
		}
	}
	if _, ok := imageExtensions[ext]; !ok {
		return "", NewValidationError("image", fmt.Sprintf(msgImageExtension, strings.TrimPrefix(ext, ".")))
	}
	return path.Join(ImageKeyPrefix, id+ext), nil
}
