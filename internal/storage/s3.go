// Package storage uploads files to an S3-compatible object store and
// hands back publicly reachable URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bernardokeke/fleetlease/internal/utils"
)

// Uploader wraps a MinIO client bound to one bucket.
type Uploader struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

// UploadResult is returned to API callers after a successful upload.
type UploadResult struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// NewUploader connects to the object store and ensures the bucket
// exists. Bucket creation failure for an already-existing bucket is
// tolerated.
func NewUploader(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Uploader, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: bucket create: %w", err)
		}
	}

	return &Uploader{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}, nil
}

// Upload stores the file under a generated object name built from a
// random numeric code, the current unix-millis timestamp and the
// original extension, so uploads never collide or reveal the source
// file name.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	objectName := fmt.Sprintf("%d%d%s", utils.NewCode(), time.Now().UnixMilli(), ext)

	_, err := u.client.PutObject(ctx, u.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: put object: %w", err)
	}

	scheme := "http"
	if u.useSSL {
		scheme = "https"
	}
	return &UploadResult{
		URL:      fmt.Sprintf("%s://%s/%s/%s", scheme, u.endpoint, u.bucket, objectName),
		FileName: objectName,
	}, nil
}
