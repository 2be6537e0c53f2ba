package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	appconfig "duet-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadSignature authorizes a direct client upload to the media host.
// Cloudinary uploads use Signature/Timestamp/CloudName/APIKey; S3 uploads
// use UploadURL/Key.
type UploadSignature struct {
	Provider  string `json:"provider"`
	Signature string `json:"signature,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	CloudName string `json:"cloudName,omitempty"`
	APIKey    string `json:"apiKey,omitempty"`
	UploadURL string `json:"uploadUrl,omitempty"`
	Key       string `json:"key,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

// MediaSigner produces upload signatures for one media host
type MediaSigner interface {
	SignUpload(ctx context.Context, folder string) (*UploadSignature, error)
}

// NewMediaSigner builds the signer selected by configuration
func NewMediaSigner(cfg appconfig.MediaConfig) (MediaSigner, error) {
	switch cfg.Provider {
	case "cloudinary":
		return NewCloudinarySigner(cfg.Cloudinary), nil
	case "s3":
		return NewS3Signer(cfg.AWS)
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}

// CloudinarySigner signs direct-to-Cloudinary upload requests
type CloudinarySigner struct {
	cfg appconfig.CloudinaryConfig
	now func() time.Time
}

// NewCloudinarySigner creates a new Cloudinary signer
func NewCloudinarySigner(cfg appconfig.CloudinaryConfig) *CloudinarySigner {
	return &CloudinarySigner{cfg: cfg, now: time.Now}
}

// SignUpload signs the upload parameters the Cloudinary way: the params
// sorted by key, joined with &, with the API secret appended, hashed with
// SHA-1.
func (s *CloudinarySigner) SignUpload(_ context.Context, folder string) (*UploadSignature, error) {
	timestamp := s.now().Unix()

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", timestamp),
	}
	if folder != "" {
		params["folder"] = folder
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	payload := strings.Join(pairs, "&") + s.cfg.APISecret

	sum := sha1.Sum([]byte(payload))
	return &UploadSignature{
		Provider:  "cloudinary",
		Signature: hex.EncodeToString(sum[:]),
		Timestamp: timestamp,
		CloudName: s.cfg.CloudName,
		APIKey:    s.cfg.APIKey,
	}, nil
}

// S3Signer issues pre-signed PUT URLs for direct S3 uploads
type S3Signer struct {
	client *s3.Client
	bucket string
}

// NewS3Signer creates a new S3 signer
func NewS3Signer(cfg appconfig.AWSConfig) (*S3Signer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Signer{client: client, bucket: cfg.S3Bucket}, nil
}

// SignUpload generates a pre-signed PUT URL under the given folder
func (s *S3Signer) SignUpload(ctx context.Context, folder string) (*UploadSignature, error) {
	key := uuid.New().String() + ".jpg"
	if folder != "" {
		key = folder + "/" + key
	}

	presigner := s3.NewPresignClient(s.client)
	request, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String("image/jpeg"),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadSignature{
		Provider:  "s3",
		UploadURL: request.URL,
		Key:       key,
		ExpiresIn: 300,
	}, nil
}
