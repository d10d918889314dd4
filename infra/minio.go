package infra

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/config"
)

type MinioClient struct {
	Admin  *madmin.AdminClient
	Client *minio.Client
	Bucket string
	urls   PublicURLs
}

func InitMinioClient(cfg *config.EnvConfig, urls PublicURLs) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	if rootUser == "" {
		panic("MinIO root user is not configured")
	}

	rootPassword := cfg.Minio.RootPassword
	if rootPassword == "" {
		panic("MinIO root password is not configured")
	}

	madminClient, err := madmin.New(endpoint, rootUser, rootPassword, cfg.Minio.UseSSL)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO admin client: %v", err))
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	client := &MinioClient{
		Admin:  madminClient,
		Client: minioClient,
		Bucket: cfg.Storage.Bucket,
		urls:   urls,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := client.EnsureBucket(ctx); err != nil {
		panic(fmt.Sprintf("Failed to prepare MinIO bucket %s: %v", client.Bucket, err))
	}

	return client
}

// EnsureBucket creates the bucket if needed and opens it for anonymous reads,
// since stored URLs are served to the public site directly.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if err := m.Client.SetBucketPolicy(ctx, m.Bucket, publicReadPolicy(m.Bucket)); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
	"Version": "2012-10-17",
	"Statement": [
		{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}
	]
}`, bucket)
}

func (m *MinioClient) Store(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := m.Client.PutObject(ctx, m.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return m.urls.URL(key), nil
}

func (m *MinioClient) Remove(ctx context.Context, url string) error {
	key, err := m.urls.Key(url)
	if err != nil {
		return err
	}

	err = m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil
		}
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (m *MinioClient) KeyFromURL(url string) (string, error) {
	return m.urls.Key(url)
}

func (m *MinioClient) List(ctx context.Context, prefix string) ([]attachment.ObjectInfo, error) {
	var objects []attachment.ObjectInfo
	for obj := range m.Client.ListObjects(ctx, m.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		objects = append(objects, attachment.ObjectInfo{
			Key:          obj.Key,
			URL:          m.urls.URL(obj.Key),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// Ping asks the admin API for server info and falls back to a bucket check
// when the credentials lack admin rights.
func (m *MinioClient) Ping(ctx context.Context) error {
	if m.Admin != nil {
		if info, err := m.Admin.ServerInfo(ctx); err == nil {
			for _, server := range info.Servers {
				if server.State != "online" {
					return fmt.Errorf("minio server %s is %s", server.Endpoint, server.State)
				}
			}
			return nil
		}
	}

	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to reach MinIO: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", m.Bucket)
	}
	return nil
}
