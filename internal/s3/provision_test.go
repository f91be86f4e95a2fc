package s3

import (
	"context"
	"errors"
	"testing"

	"github.com/arencloud/provisio/internal/logging"
	"github.com/arencloud/provisio/internal/models"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeAPI scripts head/create results and records what each call targeted.
type fakeAPI struct {
	headErr   error
	createErr error

	headCalls   int
	createCalls int

	headEndpoint   string
	createEndpoint string
	createInput    *awss3.CreateBucketInput
}

func endpointOf(base awss3.Options, optFns []func(*awss3.Options)) string {
	o := base
	for _, fn := range optFns {
		fn(&o)
	}
	if o.BaseEndpoint == nil {
		return ""
	}
	return *o.BaseEndpoint
}

func (f *fakeAPI) HeadBucket(ctx context.Context, in *awss3.HeadBucketInput, optFns ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
	f.headCalls++
	f.headEndpoint = endpointOf(awss3.Options{}, optFns)
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &awss3.HeadBucketOutput{}, nil
}

func (f *fakeAPI) CreateBucket(ctx context.Context, in *awss3.CreateBucketInput, optFns ...func(*awss3.Options)) (*awss3.CreateBucketOutput, error) {
	f.createCalls++
	f.createEndpoint = endpointOf(awss3.Options{}, optFns)
	f.createInput = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &awss3.CreateBucketOutput{}, nil
}

func newTestClient(f *fakeAPI) *Client {
	c := NewFromTarget(models.Target{Region: "us-east-1"}, logging.Nop())
	c.api = f
	return c
}

func TestEnsureExistingBucketSkipsCreate(t *testing.T) {
	f := &fakeAPI{}
	c := newTestClient(f)
	res, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if res.Outcome != OutcomeExists {
		t.Fatalf("outcome=%s want exists", res.Outcome)
	}
	if f.createCalls != 0 {
		t.Fatalf("expected no create call, got %d", f.createCalls)
	}
}

func TestEnsureAbsentBucketCreatesOnce(t *testing.T) {
	f := &fakeAPI{headErr: &s3types.NotFound{}}
	c := newTestClient(f)
	res, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if res.Outcome != OutcomeCreated {
		t.Fatalf("outcome=%s want created", res.Outcome)
	}
	if f.headCalls != 1 || f.createCalls != 1 {
		t.Fatalf("calls head=%d create=%d, want 1/1", f.headCalls, f.createCalls)
	}
}

func TestEnsureIdempotent(t *testing.T) {
	// First run creates; the bucket then exists, so the second run must
	// succeed without another create.
	f := &fakeAPI{headErr: &s3types.NotFound{}}
	c := newTestClient(f)
	if _, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"}); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	f.headErr = nil
	res, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"})
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if res.Outcome != OutcomeExists {
		t.Fatalf("second outcome=%s want exists", res.Outcome)
	}
	if f.createCalls != 1 {
		t.Fatalf("create called %d times, want 1", f.createCalls)
	}
}

func TestEnsureRoutesOverrideToBothCalls(t *testing.T) {
	f := &fakeAPI{headErr: &s3types.NotFound{}}
	c := newTestClient(f)
	res, err := c.Ensure(context.Background(), Request{Bucket: "artifacts", Endpoint: "https://example.com"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if res.EndpointMode != ModeCustom {
		t.Fatalf("mode=%s want custom", res.EndpointMode)
	}
	if f.headEndpoint != "https://example.com" || f.createEndpoint != "https://example.com" {
		t.Fatalf("endpoints head=%q create=%q, want override on both", f.headEndpoint, f.createEndpoint)
	}
}

func TestEnsureDefaultModeWithoutOverride(t *testing.T) {
	f := &fakeAPI{}
	c := newTestClient(f)
	res, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if res.EndpointMode != ModeDefault {
		t.Fatalf("mode=%s want default", res.EndpointMode)
	}
	if f.headEndpoint != "" {
		t.Fatalf("expected no per-call endpoint override, got %q", f.headEndpoint)
	}
}

func TestEnsureCreateFailurePropagates(t *testing.T) {
	boom := errors.New("AccessDenied: not allowed")
	f := &fakeAPI{headErr: &s3types.NotFound{}, createErr: boom}
	c := newTestClient(f)
	if _, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"}); !errors.Is(err, boom) {
		t.Fatalf("expected create error to propagate, got %v", err)
	}
}

func TestEnsureToleratesLostCreateRace(t *testing.T) {
	f := &fakeAPI{headErr: &s3types.NotFound{}, createErr: &s3types.BucketAlreadyOwnedByYou{}}
	c := newTestClient(f)
	res, err := c.Ensure(context.Background(), Request{Bucket: "artifacts"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if res.Outcome != OutcomeExists {
		t.Fatalf("outcome=%s want exists", res.Outcome)
	}
}

func TestEnsureRejectsEmptyBucket(t *testing.T) {
	f := &fakeAPI{}
	c := newTestClient(f)
	if _, err := c.Ensure(context.Background(), Request{Bucket: "  "}); !errors.Is(err, ErrEmptyBucket) {
		t.Fatalf("expected ErrEmptyBucket, got %v", err)
	}
	if f.headCalls != 0 || f.createCalls != 0 {
		t.Fatalf("no backend call expected for empty bucket")
	}
}

func TestEnsureNonDefaultRegionSetsLocationConstraint(t *testing.T) {
	f := &fakeAPI{headErr: &s3types.NotFound{}}
	c := newTestClient(f)
	if _, err := c.Ensure(context.Background(), Request{Bucket: "artifacts", Region: "eu-west-1"}); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg := f.createInput.CreateBucketConfiguration
	if cfg == nil || cfg.LocationConstraint != s3types.BucketLocationConstraint("eu-west-1") {
		t.Fatalf("expected eu-west-1 location constraint, got %+v", cfg)
	}
}

func TestBucketMissing(t *testing.T) {
	if !bucketMissing(&s3types.NotFound{}) {
		t.Fatal("NotFound should read as missing")
	}
	if bucketMissing(errors.New("permission denied")) {
		t.Fatal("generic error should not read as missing")
	}
}
