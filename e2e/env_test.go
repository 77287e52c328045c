package e2e

import "os"

var (
	runE2E           = os.Getenv("RUN_E2E") != ""
	azCmd            = envOr("AZ", "az")
	clusterName      = os.Getenv("CLUSTER_NAME")
	resourceGroup    = os.Getenv("RESOURCE_GROUP")
	subscription     = os.Getenv("AZURE_SUBSCRIPTION_ID")
	storageAccountID = os.Getenv("STORAGE_ACCOUNT_ID")
	storageURL       = os.Getenv("STORAGE_SERVICE_URL")
)

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
