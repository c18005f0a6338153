package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/authority/internal/server/config"
)

var loadDefaultAWSConfig = config.LoadDefaultConfig

// putObjecter is the part of *s3.Client S3Mailer uses.
type putObjecter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Mailer drops each message as a text object into an outbox bucket, for
// a separate relay to pick up.
type S3Mailer struct {
	client  putObjecter
	bucket  string
	baseURL string
	now     func() time.Time
}

// NewS3Mailer builds an S3 client from the S3 settings in cfg.
func NewS3Mailer(ctx context.Context, cfg *sc.Config) (*S3Mailer, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3Mailer(client, cfg.S3Bucket, cfg.VerifyBaseURL), nil
}

func newS3Mailer(c putObjecter, bucket, baseURL string) *S3Mailer {
	return &S3Mailer{client: c, bucket: bucket, baseURL: baseURL, now: time.Now}
}

func (m *S3Mailer) objectKey() string {
	d := m.now().UTC()
	return fmt.Sprintf("outbox/%04d/%02d/%02d/%v.txt", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (m *S3Mailer) SendVerification(ctx context.Context, v Verification) error {
	key := m.objectKey()

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(v.Body(m.baseURL)),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata:    map[string]string{"to": v.Email},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
