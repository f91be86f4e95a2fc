package s3

import (
	"context"
	"net/url"
	"strings"

	"github.com/arencloud/provisio/internal/logging"
	"github.com/arencloud/provisio/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// bucketAPI is the slice of the S3 API the provisioner touches. Kept narrow
// so tests can substitute a fake without a live backend.
type bucketAPI interface {
	HeadBucket(ctx context.Context, in *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *awss3.CreateBucketInput, optFns ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error)
}

type Client struct {
	api    bucketAPI
	logger logging.Logger
	// defaultEndpoint is the normalized endpoint baked into the SDK client;
	// empty means the backend's own default (plain AWS).
	defaultEndpoint string
	region          string
	useSSL          bool
}

// normalizeEndpoint ensures an endpoint carries a scheme; the SDK wants a full
// URL in BaseEndpoint. A scheme already present wins over the useSSL flag.
func normalizeEndpoint(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if u, err := url.Parse(endpoint); err == nil {
			return u.Scheme + "://" + u.Host
		}
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func NewFromTarget(t models.Target, logger logging.Logger) *Client {
	endpoint := normalizeEndpoint(t.Endpoint, t.UseSSL)
	region := t.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := awss3.Options{
		Region: region,
		// Path-style for explicit endpoints (MinIO/MCG); AWS prefers
		// virtual-hosted and gets it when no endpoint is set.
		UsePathStyle: endpoint != "",
	}
	if t.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(t.AccessKey, t.SecretKey, "")
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return &Client{
		api:             awss3.New(opts),
		logger:          logger,
		defaultEndpoint: endpoint,
		region:          region,
		useSSL:          t.UseSSL,
	}
}
