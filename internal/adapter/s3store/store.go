// Package s3store implements object storage on S3: presigned upload URLs
// for the browser, deletes for the catalog. The catalog treats this as a
// best-effort collaborator: a failed delete leaves a dangling blob, never
// a dangling record.
package s3store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/memecached/memecached-web/internal/config"
	"github.com/memecached/memecached-web/internal/domain"
)

// Store is the S3-backed object store.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	cdnDomain string
}

// New creates a Store from StorageConfig.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &Store{
		client:    client,
		presigner: s3.NewPresignClient(client, s3.WithPresignExpires(cfg.PresignTTL)),
		bucket:    cfg.Bucket,
		cdnDomain: cfg.CDNDomain,
	}, nil
}

// Presign returns a presigned PUT URL and the generated object key for an
// upload by ownerID with the given file extension.
func (s *Store) Presign(ctx context.Context, ownerID uuid.UUID, ext string) (*domain.PresignedUpload, error) {
	key := BuildKey(ownerID, ext)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}

	return &domain.PresignedUpload{UploadURL: req.URL, Key: key}, nil
}

// Delete removes a single object by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// DeleteMany removes a batch of objects in one request. No-op on empty input.
func (s *Store) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("delete %d objects: %w", len(keys), err)
	}
	return nil
}

// URL derives the public image URL for a stored key.
func (s *Store) URL(key string) string {
	return PublicURL(s.cdnDomain, key)
}

// KeyForURL inverts URL for the deletion path.
func (s *Store) KeyForURL(imageURL string) (string, error) {
	return KeyFromURL(s.cdnDomain, imageURL)
}
