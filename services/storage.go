package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/barefootnomad/api/config"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	AvatarSize    = 256
	MaxAvatarSize = 5 << 20
)

// AvatarStorage keeps processed profile pictures and returns their URL.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, userID uint, data []byte) (string, error)
}

type S3Storage struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Storage uses static credentials when they are configured and the
// default AWS chain otherwise.
func NewS3Storage(ctx context.Context, conf *config.Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(conf.AwsRegion)}
	if conf.AwsAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AwsAccessKeyID, conf.AwsSecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load AWS config")
	}
	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: conf.AwsBucket,
		region: conf.AwsRegion,
	}, nil
}

func (s *S3Storage) UploadAvatar(ctx context.Context, userID uint, data []byte) (string, error) {
	key := fmt.Sprintf("avatars/%d_%s.jpg", userID, uuid.New().String())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file to S3")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// ProcessAvatar crops the image to a centered square thumbnail and
// re-encodes it as JPEG.
func ProcessAvatar(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "error decoding image")
	}
	thumb := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, errors.Wrap(err, "error encoding thumbnail to JPEG")
	}
	return buf.Bytes(), nil
}
