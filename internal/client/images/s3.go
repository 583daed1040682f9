package images

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cc "github.com/dmitrijs2005/petadopt/internal/client/config"
	"github.com/dmitrijs2005/petadopt/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrNotConfigured   = errors.New("image bucket is not configured")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrForeignURL      = errors.New("image was not uploaded to this bucket")
)

// replaced in tests
var (
	loadAWSConfig = awsconfig.LoadDefaultConfig
	newS3Client   = func(cfg aws.Config, optFns ...func(*s3.Options)) objectStore {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type objectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Uploader struct {
	client  objectStore
	bucket  string
	baseURL string
	now     func() time.Time
	log     logging.Logger
}

// NewS3Uploader builds an uploader from the Image* settings of cfg. Static
// credentials are used when an access key is configured, the default AWS
// chain otherwise.
func NewS3Uploader(ctx context.Context, cfg *cc.Config, log logging.Logger) (*S3Uploader, error) {
	if !cfg.ImagesEnabled() {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = logging.Nop()
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.ImageRegion)}
	if cfg.ImageAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.ImageAccessKey, cfg.ImageSecretKey, ""),
		))
	}

	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3Client(awsCfg, func(o *s3.Options) {
		if cfg.ImageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ImageEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:  client,
		bucket:  cfg.ImageBucket,
		baseURL: publicBaseURL(cfg),
		now:     time.Now,
		log:     log.With("component", "images"),
	}, nil
}

// publicBaseURL is the prefix object keys are appended to.
func publicBaseURL(cfg *cc.Config) string {
	switch {
	case cfg.ImagePublicBaseURL != "":
		return strings.TrimRight(cfg.ImagePublicBaseURL, "/")
	case cfg.ImageEndpoint != "":
		return strings.TrimRight(cfg.ImageEndpoint, "/") + "/" + cfg.ImageBucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.ImageBucket, cfg.ImageRegion)
	}
}

// Upload stores the file at path under a fresh key and returns its public
// URL.
func (u *S3Uploader) Upload(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}

	key := u.storageKey(ext)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(mime.TypeByExtension(ext)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	u.log.Info(ctx, "image uploaded", "key", key, "bytes", info.Size())
	return u.baseURL + "/" + key, nil
}

// Remove deletes an object previously returned by Upload, e.g. when the
// pet it was meant for could not be saved.
func (u *S3Uploader) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.baseURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	if _, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	u.log.Info(ctx, "image removed", "key", key)
	return nil
}

func (u *S3Uploader) storageKey(ext string) string {
	d := u.now()
	return fmt.Sprintf("pets/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
