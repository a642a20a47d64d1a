package managers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaineelPandya/social-book/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	log "github.com/sirupsen/logrus"
)

// BlobStore stores the bytes of uploaded files under opaque keys.
type BlobStore interface {
	// Put stores the content and returns the number of bytes written.
	Put(ctx context.Context, key string, content io.Reader) (int64, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewBlobStore returns the blob store selected by BLOB_BACKEND.
func NewBlobStore(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.BlobBackend {
	case "s3":
		return NewS3BlobStore(ctx, cfg)
	case "disk", "":
		return NewDiskBlobStore(cfg.BlobDir), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}

// DiskBlobStore keeps blobs as files below a root directory.
type DiskBlobStore struct {
	root string
}

func NewDiskBlobStore(root string) *DiskBlobStore {
	log.Infof("Storing uploaded files in %s", root)
	return &DiskBlobStore{root: root}
}

func (ds *DiskBlobStore) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(ds.root, cleaned), nil
}

func (ds *DiskBlobStore) Put(_ context.Context, key string, content io.Reader) (int64, error) {
	path, err := ds.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(file, content)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return written, nil
}

func (ds *DiskBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := ds.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return file, err
}

// Delete removes the blob. Missing blobs are ignored.
func (ds *DiskBlobStore) Delete(_ context.Context, key string) error {
	path, err := ds.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// S3BlobStore keeps blobs in an S3 compatible bucket, for example MinIO.
type S3BlobStore struct {
	client *s3.Client
	bucket string
}

// NewS3BlobStore creates an S3 client with static credentials for the configured endpoint.
func NewS3BlobStore(ctx context.Context, cfg *config.Config) (*S3BlobStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Infof("Storing uploaded files in bucket %s", cfg.S3Bucket)
	return &S3BlobStore{client: client, bucket: cfg.S3Bucket}, nil
}

func (ss *S3BlobStore) Put(ctx context.Context, key string, content io.Reader) (int64, error) {
	body, size, err := sizedBody(content)
	if err != nil {
		return 0, err
	}

	_, err = ss.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ss.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

func (ss *S3BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	output, err := ss.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return output.Body, nil
}

func (ss *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := ss.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	return err
}

// sizedBody returns a seekable body and its length. Uploaded multipart files are seekable already,
// other readers are buffered.
func sizedBody(content io.Reader) (io.ReadSeeker, int64, error) {
	if seeker, ok := content.(io.ReadSeeker); ok {
		start, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := seeker.Seek(start, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return seeker, end - start, nil
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
