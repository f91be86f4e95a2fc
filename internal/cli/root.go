package cli

import (
	"os"

	"github.com/arencloud/provisio/internal/config"
	"github.com/arencloud/provisio/internal/logging"
	"github.com/arencloud/provisio/internal/models"
	"github.com/arencloud/provisio/internal/s3"

	"github.com/spf13/cobra"
)

type ensureOptions struct {
	endpointURL string
	region      string
}

// ensureRunner performs the single ensure pass; tests swap in a stub so CLI
// behavior is checked without a backend.
type ensureRunner func(cmd *cobra.Command, bucket string, opts ensureOptions) error

func newRootCmd(run ensureRunner) *cobra.Command {
	opts := &ensureOptions{}
	root := &cobra.Command{
		Use:   "provisio <bucket>",
		Short: "Ensure an S3 bucket exists",
		Long: `provisio ensures a storage bucket exists, creating it only when absent.
Repeated runs against the same bucket succeed without a second creation.

Credentials and the default endpoint come from the environment
(S3_ACCESS_KEY/S3_SECRET_KEY or AWS_*, S3_ENDPOINT_URL, S3_REGION).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// argument parsing succeeded; a failure past this point is a
			// provisioning error and usage output would only be noise
			cmd.SilenceUsage = true
			return run(cmd, args[0], *opts)
		},
	}
	root.Flags().StringVar(&opts.endpointURL, "endpoint-url", "", "override the storage backend endpoint URL (S3-compatible backends)")
	root.Flags().StringVar(&opts.region, "region", "", "region used when the bucket must be created")
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func runEnsure(cmd *cobra.Command, bucket string, opts ensureOptions) error {
	cfg := config.Load()
	logger := logging.New(cfg.Env)
	client := s3.NewFromTarget(models.Target{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	}, logger)
	res, err := client.Ensure(cmd.Context(), s3.Request{Bucket: bucket, Endpoint: opts.endpointURL, Region: opts.region})
	if err != nil {
		return err
	}
	logger.Info("bucket ready", "bucket", res.Bucket, "outcome", string(res.Outcome), "endpointMode", res.EndpointMode)
	return nil
}

func Execute() {
	if err := newRootCmd(runEnsure).Execute(); err != nil {
		os.Exit(1)
	}
}
