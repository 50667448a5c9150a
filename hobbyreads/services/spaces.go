package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesService hands out short-lived GET URLs for media stored in an
// S3-compatible bucket.
type SpacesService struct {
	presigner   *s3.PresignClient
	bucket      string
	ttl         time.Duration
	CoverRoot   string
	ProfileRoot string
}

type SpacesOptions struct {
	Key         string
	Secret      string
	Region      string
	Bucket      string
	Endpoint    string
	CoverRoot   string
	ProfileRoot string
	TTL         time.Duration
}

func NewSpacesService(ctx context.Context, opts SpacesOptions) (*SpacesService, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.Key, opts.Secret, "")),
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", opts.Region)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &SpacesService{
		presigner:   s3.NewPresignClient(client),
		bucket:      opts.Bucket,
		ttl:         opts.TTL,
		CoverRoot:   strings.Trim(opts.CoverRoot, "/"),
		ProfileRoot: strings.Trim(opts.ProfileRoot, "/"),
	}, nil
}

// CoverURL signs the stored cover image key. An empty key yields an empty URL.
func (s *SpacesService) CoverURL(ctx context.Context, key string) (string, error) {
	return s.sign(ctx, s.CoverRoot, key)
}

// ProfileURL signs the stored profile picture key. An empty key yields an empty URL.
func (s *SpacesService) ProfileURL(ctx context.Context, key string) (string, error) {
	return s.sign(ctx, s.ProfileRoot, key)
}

func (s *SpacesService) sign(ctx context.Context, root, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}

	objectKey := ObjectKey(root, key)
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", objectKey, err)
	}
	return req.URL, nil
}

// ObjectKey places a stored file name under root. Keys that already carry the root
// (the legacy "/uploads/books/x.jpg" form) are only stripped of their leading slash.
func ObjectKey(root, key string) string {
	key = strings.TrimPrefix(key, "/")
	if root == "" || strings.HasPrefix(key, root+"/") {
		return key
	}
	return path.Join(root, path.Base(key))
}

// LocalMedia serves media paths relative to the API host. It is used when no
// bucket is configured.
type LocalMedia struct {
	CoverRoot   string
	ProfileRoot string
}

func NewLocalMedia(coverRoot, profileRoot string) *LocalMedia {
	return &LocalMedia{
		CoverRoot:   strings.Trim(coverRoot, "/"),
		ProfileRoot: strings.Trim(profileRoot, "/"),
	}
}

func (m *LocalMedia) CoverURL(_ context.Context, key string) (string, error) {
	return localPath(m.CoverRoot, key), nil
}

func (m *LocalMedia) ProfileURL(_ context.Context, key string) (string, error) {
	return localPath(m.ProfileRoot, key), nil
}

func localPath(root, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return "/" + ObjectKey(root, key)
}
