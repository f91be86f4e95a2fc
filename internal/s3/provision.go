package s3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Request describes one ensure-bucket run. Endpoint, when set, overrides the
// client's default endpoint for both the existence check and the creation.
type Request struct {
	Bucket   string
	Endpoint string
	Region   string
}

type Outcome string

const (
	OutcomeExists  Outcome = "exists"
	OutcomeCreated Outcome = "created"
)

const (
	ModeCustom  = "custom"
	ModeDefault = "default"
)

type Result struct {
	Bucket       string
	Outcome      Outcome
	Endpoint     string
	EndpointMode string
}

var ErrEmptyBucket = errors.New("bucket name is required")

// Ensure makes sure the requested bucket exists: head first, create only when
// the head fails. Both calls go to the same endpoint selection. Creation
// failures propagate, except a backend-reported "already owned by you",
// which means another writer won the race and the end state is what we wanted.
func (c *Client) Ensure(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Bucket) == "" {
		return Result{}, ErrEmptyBucket
	}

	endpoint, mode := c.selectEndpoint(req.Endpoint)
	res := Result{Bucket: req.Bucket, Endpoint: endpoint, EndpointMode: mode}

	var optFns []func(*awss3.Options)
	if mode == ModeCustom {
		optFns = append(optFns, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	c.logger.Info("checking bucket", "bucket", req.Bucket, "endpointMode", mode, "endpoint", endpoint)
	if _, err := c.api.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(req.Bucket)}, optFns...); err == nil {
		c.logger.Info("bucket already exists", "bucket", req.Bucket)
		res.Outcome = OutcomeExists
		return res, nil
	} else if bucketMissing(err) {
		c.logger.Info("bucket not found, creating", "bucket", req.Bucket)
	} else {
		// Inaccessible counts the same as absent: fall through and attempt
		// creation against the same endpoint.
		c.logger.Debug("head failed, attempting create", "bucket", req.Bucket, "error", err.Error())
	}

	in := &awss3.CreateBucketInput{Bucket: aws.String(req.Bucket)}
	if region := c.creationRegion(req.Region); region != "" && region != "us-east-1" {
		in.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}
	if _, err := c.api.CreateBucket(ctx, in, optFns...); err != nil {
		if bucketAlreadyOurs(err) {
			c.logger.Info("bucket created concurrently elsewhere", "bucket", req.Bucket)
			res.Outcome = OutcomeExists
			return res, nil
		}
		return Result{}, fmt.Errorf("create bucket %q: %w", req.Bucket, err)
	}
	c.logger.Info("bucket created", "bucket", req.Bucket, "endpointMode", mode)
	res.Outcome = OutcomeCreated
	return res, nil
}

// selectEndpoint picks the per-request override when present, otherwise the
// client default. The mode reflects the caller's choice, not whether the
// resulting URL is empty.
func (c *Client) selectEndpoint(override string) (endpoint, mode string) {
	if strings.TrimSpace(override) != "" {
		return normalizeEndpoint(override, c.useSSL), ModeCustom
	}
	return c.defaultEndpoint, ModeDefault
}

func (c *Client) creationRegion(override string) string {
	if override != "" {
		return override
	}
	return c.region
}

func bucketMissing(err error) bool {
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket"
	}
	return false
}

// bucketAlreadyOurs matches only BucketAlreadyOwnedByYou. BucketAlreadyExists
// means someone else holds the name and stays an error.
func bucketAlreadyOurs(err error) bool {
	var owned *s3types.BucketAlreadyOwnedByYou
	return errors.As(err, &owned)
}
