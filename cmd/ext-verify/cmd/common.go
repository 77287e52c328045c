package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/kubeext/extverify/pkg/azcli"
	"github.com/kubeext/extverify/pkg/bucket"
	"github.com/kubeext/extverify/pkg/config"
	"github.com/kubeext/extverify/pkg/extension"
	"github.com/kubeext/extverify/verifier"
)

func newLogger() logr.Logger {
	return zap.New(zap.WriteTo(os.Stderr), zap.StacktraceLevel(zapcore.DPanicLevel))
}

func newRunner() *azcli.Runner {
	return azcli.NewRunner(
		azcli.WithBinary(commonArgs.azBinary),
		azcli.WithRateLimit(rate.Limit(commonArgs.qps), commonArgs.burst),
	)
}

func makeBucket(ctx context.Context, cfg *config.Config) (bucket.Bucket, error) {
	switch commonArgs.storageBackend {
	case "azure":
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain Azure credentials: %w", err)
		}
		return bucket.NewAzureBucket(commonArgs.storageURL, cfg.StorageContainer, cred)
	case "s3":
		var opts []func(*s3.Options)
		if len(commonArgs.region) > 0 {
			opts = append(opts, bucket.WithRegion(commonArgs.region))
		}
		if len(commonArgs.endpointURL) > 0 {
			opts = append(opts, bucket.WithEndpointURL(commonArgs.endpointURL))
		}
		if commonArgs.usePathStyle {
			opts = append(opts, bucket.WithPathStyle())
		}
		return bucket.NewS3Bucket(cfg.StorageContainer, opts...)
	case "gcs":
		return bucket.NewGCSBucket(ctx, cfg.StorageContainer)
	}
	return nil, nil
}

func newChecker(ctx context.Context, log logr.Logger, cfg *config.Config) (*verifier.Checker, error) {
	var probes []verifier.Probe

	b, err := makeBucket(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if b != nil {
		probes = append(probes, &verifier.StorageProbe{
			Bucket: b,
			Prefix: cfg.ExtensionName + "/",
		})
	}

	if commonArgs.checkWorkload {
		restCfg, err := kubeConfigFlags.ToRESTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get config for Kubernetes: %w", err)
		}
		p, err := verifier.NewWorkloadProbe(restCfg, cfg.ReleaseNamespace)
		if err != nil {
			return nil, err
		}
		probes = append(probes, p)
	}

	return verifier.NewChecker(log, probes...), nil
}

func newVerifier(ctx context.Context, log logr.Logger) (*verifier.Verifier, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	client := extension.NewClient(newRunner(), extension.Cluster{
		Name:          cfg.ClusterName,
		ResourceGroup: cfg.ResourceGroup,
		Type:          cfg.ClusterType,
		Subscription:  cfg.Subscription,
	})

	checker, err := newChecker(ctx, log, cfg)
	if err != nil {
		return nil, nil, err
	}

	v := verifier.New(log, client, checker, verifier.Options{
		ExtensionName: cfg.ExtensionName,
		ExtensionType: cfg.ExtensionType,
		ReleaseTrain:  cfg.ReleaseTrain,
		Settings: map[string]string{
			"storageAccount":   cfg.StorageAccountID,
			"storageContainer": cfg.StorageContainer,
		},
		PollInterval:    cfg.PollInterval,
		PollMaxAttempts: cfg.PollMaxAttempts,
	})
	return v, cfg, nil
}
