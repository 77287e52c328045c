package extverify

const (
	// DefaultExtensionName is the instance name used when none is configured.
	DefaultExtensionName = "costexport"

	// DefaultExtensionType is the extension type of the cost-export extension.
	DefaultExtensionType = "costexport"

	// DefaultReleaseNamespace is the namespace the cost-export extension is
	// installed into on the cluster.
	DefaultReleaseNamespace = "cost-export"

	// DefaultReleaseTrain is the release train used when none is configured.
	DefaultReleaseTrain = "Stable"

	// DefaultClusterType is the cluster type for AKS managed clusters.
	DefaultClusterType = "managedClusters"

	// DefaultStorageContainer is the blob container cost exports are written to.
	DefaultStorageContainer = "cost"
)

const (
	// CostManagementProvider is the resource provider namespace that must be
	// registered on the subscription before a cost export can be created.
	CostManagementProvider = "Microsoft.CostManagementExports"
)
