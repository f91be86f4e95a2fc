package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

type stubRunner struct {
	calls  int
	bucket string
	opts   ensureOptions
	err    error
}

func (s *stubRunner) run(cmd *cobra.Command, bucket string, opts ensureOptions) error {
	s.calls++
	s.bucket = bucket
	s.opts = opts
	return s.err
}

func execute(t *testing.T, stub *stubRunner, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errb bytes.Buffer
	root := newRootCmd(stub.run)
	root.SetOut(&out)
	root.SetErr(&errb)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errb.String(), err
}

func TestEnsureBucketArg(t *testing.T) {
	stub := &stubRunner{}
	_, _, err := execute(t, stub, "mlflow-artifacts")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stub.calls != 1 || stub.bucket != "mlflow-artifacts" {
		t.Fatalf("runner calls=%d bucket=%q", stub.calls, stub.bucket)
	}
	if stub.opts.endpointURL != "" {
		t.Fatalf("expected no endpoint override, got %q", stub.opts.endpointURL)
	}
}

func TestEndpointURLFlag(t *testing.T) {
	stub := &stubRunner{}
	_, _, err := execute(t, stub, "mlflow-artifacts", "--endpoint-url", "https://example.com")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stub.opts.endpointURL != "https://example.com" {
		t.Fatalf("endpoint flag not passed through, got %q", stub.opts.endpointURL)
	}
}

func TestMissingBucketFailsWithUsage(t *testing.T) {
	stub := &stubRunner{}
	_, _, err := execute(t, stub)
	if err == nil {
		t.Fatal("expected error for missing bucket argument")
	}
	if stub.calls != 0 {
		t.Fatal("runner must not be invoked without a bucket")
	}
}

func TestUnknownFlagFails(t *testing.T) {
	stub := &stubRunner{}
	_, _, err := execute(t, stub, "bucket", "--bogus")
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if stub.calls != 0 {
		t.Fatal("runner must not be invoked on a flag error")
	}
}

func TestHelpExitsCleanly(t *testing.T) {
	stub := &stubRunner{}
	stdout, _, err := execute(t, stub, "-h")
	if err != nil {
		t.Fatalf("help should not error: %v", err)
	}
	if stub.calls != 0 {
		t.Fatal("runner must not be invoked for -h")
	}
	if !strings.Contains(stdout, "provisio <bucket>") {
		t.Fatalf("usage not printed, got %q", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	stub := &stubRunner{}
	stdout, _, err := execute(t, stub, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "provisio ") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}
