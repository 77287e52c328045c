package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/cli-runtime/pkg/genericclioptions"
	"k8s.io/klog/v2"

	"github.com/kubeext/extverify"
	"github.com/kubeext/extverify/pkg/metrics"
)

var commonArgs struct {
	azBinary       string
	qps            float64
	burst          int
	storageBackend string
	storageURL     string
	region         string
	endpointURL    string
	usePathStyle   bool
	checkWorkload  bool
}

var (
	kubeConfigFlags *genericclioptions.ConfigFlags

	// registry holds the verification metrics; the schedule command serves it.
	registry = prometheus.NewRegistry()
)

var rootCmd = &cobra.Command{
	Use:     "ext-verify",
	Version: extverify.Version,
	Short:   "verify cluster extension lifecycle",
	Long: `Verify the lifecycle of a cluster extension managed through az k8s-extension.

The target cluster and extension are read from the environment
(CLUSTER_NAME, RESOURCE_GROUP, AZURE_SUBSCRIPTION_ID, STORAGE_ACCOUNT_ID, ...).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		switch commonArgs.storageBackend {
		case "azure", "s3", "gcs", "none":
		default:
			return fmt.Errorf("unknown storage backend %q", commonArgs.storageBackend)
		}
		if commonArgs.storageBackend == "azure" && commonArgs.storageURL == "" {
			return fmt.Errorf("--storage-url is required for the azure backend")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func init() {
	metrics.Register(registry)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&commonArgs.azBinary, "az", "az", "Path of the az binary")
	pf.Float64Var(&commonArgs.qps, "az-qps", 2, "Rate limit for az invocations")
	pf.IntVar(&commonArgs.burst, "az-burst", 5, "Burst size for az invocations")
	pf.StringVar(&commonArgs.storageBackend, "storage-backend", "azure", "Storage backend holding export artifacts (azure, s3, gcs, or none)")
	pf.StringVar(&commonArgs.storageURL, "storage-url", "", "Blob service URL, e.g. https://<account>.blob.core.windows.net/")
	pf.StringVar(&commonArgs.region, "region", "", "AWS region (s3 backend)")
	pf.StringVar(&commonArgs.endpointURL, "endpoint", "", "S3 API endpoint URL (s3 backend)")
	pf.BoolVar(&commonArgs.usePathStyle, "use-path-style", false, "Use path-style S3 API (s3 backend)")
	pf.BoolVar(&commonArgs.checkWorkload, "check-workload", false, "Also require the extension pods to be ready for onboarding")

	kubeConfigFlags = genericclioptions.NewConfigFlags(true)
	kubeConfigFlags.AddFlags(pf)

	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
}
