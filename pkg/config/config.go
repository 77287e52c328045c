// Package config loads the verification target from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kubeext/extverify"
)

// Environment variable names.
const (
	EnvClusterName      = "CLUSTER_NAME"
	EnvResourceGroup    = "RESOURCE_GROUP"
	EnvSubscription     = "AZURE_SUBSCRIPTION_ID"
	EnvClusterType      = "CLUSTER_TYPE"
	EnvStorageAccountID = "STORAGE_ACCOUNT_ID"
	EnvStorageContainer = "STORAGE_CONTAINER"
	EnvExtensionName    = "EXTENSION_NAME"
	EnvExtensionType    = "EXTENSION_TYPE"
	EnvReleaseTrain     = "RELEASE_TRAIN"
	EnvReleaseNamespace = "RELEASE_NAMESPACE"
	EnvPollInterval     = "POLL_INTERVAL"
	EnvPollMaxAttempts  = "POLL_MAX_ATTEMPTS"
)

// Config identifies the cluster, the extension under test, and the storage
// container its cost exports are delivered to.
type Config struct {
	ClusterName      string
	ResourceGroup    string
	Subscription     string
	ClusterType      string
	StorageAccountID string
	StorageContainer string
	ExtensionName    string
	ExtensionType    string
	ReleaseTrain     string
	ReleaseNamespace string
	PollInterval     time.Duration
	PollMaxAttempts  int
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		ClusterType:      envOr(EnvClusterType, extverify.DefaultClusterType),
		StorageContainer: envOr(EnvStorageContainer, extverify.DefaultStorageContainer),
		ExtensionName:    envOr(EnvExtensionName, extverify.DefaultExtensionName),
		ExtensionType:    envOr(EnvExtensionType, extverify.DefaultExtensionType),
		ReleaseTrain:     envOr(EnvReleaseTrain, extverify.DefaultReleaseTrain),
		ReleaseNamespace: envOr(EnvReleaseNamespace, extverify.DefaultReleaseNamespace),
		PollInterval:     10 * time.Second,
		PollMaxAttempts:  30,
	}

	for _, v := range []struct {
		name string
		dest *string
	}{
		{EnvClusterName, &cfg.ClusterName},
		{EnvResourceGroup, &cfg.ResourceGroup},
		{EnvSubscription, &cfg.Subscription},
		{EnvStorageAccountID, &cfg.StorageAccountID},
	} {
		*v.dest = os.Getenv(v.name)
		if *v.dest == "" {
			return nil, fmt.Errorf("missing required environment variable %s", v.name)
		}
	}

	if s := os.Getenv(EnvPollInterval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPollInterval, err)
		}
		cfg.PollInterval = d
	}
	if s := os.Getenv(EnvPollMaxAttempts); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPollMaxAttempts, err)
		}
		cfg.PollMaxAttempts = n
	}

	return cfg, nil
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
