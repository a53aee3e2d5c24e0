package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storagev1 "google.golang.org/api/storage/v1"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	objects *storagev1.ObjectsService
	bucket  string
	logger  *zap.SugaredLogger
}

// NewGCS creates a GCS backend. Application default credentials are used when
// credentialsFile is empty.
func NewGCS(ctx context.Context, bucket, credentialsFile string, logger *zap.SugaredLogger) (*GCS, error) {
	opts := []option.ClientOption{option.WithScopes(storagev1.DevstorageReadWriteScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	srv, err := storagev1.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCS{objects: storagev1.NewObjectsService(srv), bucket: bucket, logger: logger}, nil
}

// Upload inserts the object into the bucket.
func (g *GCS) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	obj := &storagev1.Object{
		Bucket:      g.bucket,
		Name:        key,
		ContentType: contentType,
	}

	stored, err := g.objects.Insert(g.bucket, obj).
		Media(r, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("gcs insert %s: %w", key, err)
	}

	g.logger.Debugw("object stored", "bucket", g.bucket, "key", key, "size", stored.Size)
	return publicURL(g.bucket, key), nil
}

// Delete removes the object from the bucket.
func (g *GCS) Delete(ctx context.Context, key string) error {
	if err := g.objects.Delete(g.bucket, key).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gcs delete %s: %w", key, err)
	}
	return nil
}

func publicURL(bucket, key string) string {
	return gcsPublicHost + "/" + bucket + "/" + (&url.URL{Path: key}).EscapedPath()
}
