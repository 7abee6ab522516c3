// Package publish uploads generated reports to S3-compatible object storage.
package publish

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"
)

// S3Publisher implements ArtifactPublisher on top of a MinIO client.
type S3Publisher struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

var _ contract.ArtifactPublisher = &S3Publisher{} // Compile-time check

// NewS3Publisher validates cfg and builds a client. No request is sent until
// the first Publish call.
func NewS3Publisher(cfg contract.PublishConfig) (*S3Publisher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("publish endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("publish access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("publish bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = contract.DefaultPublishRegion
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Publisher{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

// Bucket returns the target bucket name.
func (p *S3Publisher) Bucket() string {
	return p.bucketName
}

func (p *S3Publisher) ensureBucket(ctx context.Context) error {
	p.initOnce.Do(func() {
		exists, err := p.client.BucketExists(ctx, p.bucketName)
		if err != nil {
			p.initErr = err
			return
		}
		if exists {
			return
		}
		p.initErr = p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{Region: p.region})
	})
	return p.initErr
}

// Publish uploads the file at localPath under key, creating the bucket on first use.
func (p *S3Publisher) Publish(ctx context.Context, key string, localPath string) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("publisher is nil")
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return fmt.Errorf("object key is required")
	}
	if err := p.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	_, err := p.client.FPutObject(ctx, p.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType(localPath),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// ObjectKey returns the remote key for a report: <project>/<commit>/<file name>.
func ObjectKey(project schema.Project, localPath string) string {
	commit := strings.TrimSpace(project.Commit)
	if commit == "" {
		commit = "unknown"
	}
	return path.Join(project.Name, commit, filepath.Base(localPath))
}

// ContentType picks the upload content type from the file extension.
func ContentType(localPath string) string {
	switch strings.ToLower(filepath.Ext(localPath)) {
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// PublishAll uploads every report in paths and returns the keys that succeeded.
// Failures are logged as warnings so one bad upload does not stop the rest.
func PublishAll(ctx context.Context, publisher contract.ArtifactPublisher, project schema.Project, paths []string) []string {
	var published []string
	for _, p := range paths {
		key := ObjectKey(project, p)
		if err := publisher.Publish(ctx, key, p); err != nil {
			contract.LogWarn("Error publishing "+filepath.Base(p), err)
			continue
		}
		published = append(published, key)
	}
	return published
}
