package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store uploads media to an S3-compatible bucket (Cloudflare R2) and hands
// back public CDN URLs. Tournament covers and the payment QR image live
// here; the database only stores the URL.
type Store struct {
	client  *s3.Client
	bucket  string
	cdnBase string
}

// NewStore creates a store against the given R2 account
func NewStore(ctx context.Context, accountID, accessKeyID, accessKeySecret, bucket, cdnBase string) (*Store, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	if cdnBase == "" {
		cdnBase = endpoint
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Store{
		client:  client,
		bucket:  bucket,
		cdnBase: strings.TrimSuffix(cdnBase, "/"),
	}, nil
}

// Upload stores one object under the given folder and returns its public
// URL. The object key is randomized; the original filename only
// contributes its extension.
func (s *Store) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), path.Ext(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s", s.cdnBase, key), nil
}
