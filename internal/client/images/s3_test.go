package images

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cc "github.com/dmitrijs2005/petadopt/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
	deleted                  []string
}

func (f *fakePutter) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.contentType = aws.ToString(in.ContentType)
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func imageConfig() *cc.Config {
	cfg := &cc.Config{}
	cfg.LoadDefaults()
	cfg.ImageBucket = "pets"
	cfg.ImageEndpoint = "http://127.0.0.1:9000"
	cfg.ImageAccessKey = "minioadmin"
	cfg.ImageSecretKey = "minioadmin"
	return cfg
}

func stubAWS(t *testing.T, put *fakePutter) *s3.Options {
	t.Helper()
	origLoad, origNew := loadAWSConfig, newS3Client
	t.Cleanup(func() {
		loadAWSConfig, newS3Client = origLoad, origNew
	})

	loadAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectStore {
		for _, fn := range optFns {
			fn(&opts)
		}
		return put
	}
	return &opts
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewS3Uploader_AppliesEndpoint(t *testing.T) {
	opts := stubAWS(t, &fakePutter{})

	u, err := NewS3Uploader(context.Background(), imageConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000/pets", u.baseURL)
}

func TestNewS3Uploader_Errors(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), &cc.Config{}, nil)
	require.ErrorIs(t, err, ErrNotConfigured)

	stubAWS(t, &fakePutter{})
	loadAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = NewS3Uploader(context.Background(), imageConfig(), nil)
	require.ErrorContains(t, err, "load-fail")
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &cc.Config{ImageBucket: "pets", ImageRegion: "eu-west-1"}
	assert.Equal(t, "https://pets.s3.eu-west-1.amazonaws.com", publicBaseURL(cfg))

	cfg.ImageEndpoint = "http://minio:9000/"
	assert.Equal(t, "http://minio:9000/pets", publicBaseURL(cfg))

	cfg.ImagePublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(cfg))
}

func TestUpload(t *testing.T) {
	put := &fakePutter{}
	stubAWS(t, put)
	u, err := NewS3Uploader(context.Background(), imageConfig(), nil)
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC) }

	url, err := u.Upload(context.Background(), writeFile(t, "rex.PNG", "png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "pets", put.bucket)
	assert.True(t, strings.HasPrefix(put.key, "pets/2025/03/07/"), put.key)
	assert.True(t, strings.HasSuffix(put.key, ".png"), put.key)
	assert.Equal(t, "image/png", put.contentType)
	assert.Equal(t, "png-bytes", string(put.body))
	assert.Equal(t, "http://127.0.0.1:9000/pets/"+put.key, url)
}

func TestUpload_Failures(t *testing.T) {
	put := &fakePutter{}
	stubAWS(t, put)
	u, err := NewS3Uploader(context.Background(), imageConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = u.Upload(ctx, writeFile(t, "notes.txt", "x"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = u.Upload(ctx, filepath.Join(t.TempDir(), "missing.jpg"))
	require.ErrorIs(t, err, os.ErrNotExist)

	put.err = errors.New("access denied")
	_, err = u.Upload(ctx, writeFile(t, "rex.jpg", "x"))
	require.ErrorContains(t, err, "access denied")
}

func TestRemove(t *testing.T) {
	put := &fakePutter{}
	stubAWS(t, put)
	u, err := NewS3Uploader(context.Background(), imageConfig(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	url, err := u.Upload(ctx, writeFile(t, "rex.jpg", "x"))
	require.NoError(t, err)
	require.NoError(t, u.Remove(ctx, url))
	assert.Equal(t, []string{"pets/" + put.key}, put.deleted)

	require.ErrorIs(t, u.Remove(ctx, "https://elsewhere.example.com/rex.jpg"), ErrForeignURL)

	put.err = errors.New("access denied")
	require.ErrorContains(t, u.Remove(ctx, url), "access denied")
}
