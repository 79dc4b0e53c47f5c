// Package storage holds the S3 client used for document upload and
// post-grant delivery
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

type S3Client struct {
	C          *s3.Client
	Presigner  *s3.PresignClient
	Uploader   *manager.Uploader
	Bucket     *string
	PresignTTL time.Duration
}

// NewS3 builds the client from the aws.* config section and checks that
// the bucket exists before the server starts taking requests.
func NewS3() (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("aws.access_key"),
			viper.GetString("aws.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("aws.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.Region = viper.GetString("aws.region")
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &S3Client{
		C:          client,
		Presigner:  s3.NewPresignClient(client),
		Uploader:   manager.NewUploader(client),
		Bucket:     bucket,
		PresignTTL: viper.GetDuration("aws.presign_ttl"),
	}, nil
}

// Upload stores a document body under the given key.
func (c *S3Client) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := c.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      c.Bucket,
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3, %w", err)
	}

	return nil
}

// PresignGet returns a short-lived URL the rendering layer can fetch the
// document from. The URL outliving the view grant is fine: it expires on
// its own and carries no further authority.
func (c *S3Client) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := c.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: c.Bucket,
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign document URL, %w", err)
	}

	return req.URL, nil
}
