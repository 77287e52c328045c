package extension

// Extension mirrors the JSON emitted by "az k8s-extension" for a cluster
// extension instance.
type Extension struct {
	ID                      string            `json:"id"`
	Name                    string            `json:"name"`
	ExtensionType           string            `json:"extensionType"`
	AutoUpgradeMinorVersion bool              `json:"autoUpgradeMinorVersion"`
	ReleaseTrain            string            `json:"releaseTrain"`
	Version                 string            `json:"version"`
	ProvisioningState       string            `json:"provisioningState"`
	Scope                   Scope             `json:"scope"`
	ConfigurationSettings   map[string]string `json:"configurationSettings"`
}

// Scope is the installation scope of an extension.
type Scope struct {
	Cluster *ClusterScope `json:"cluster,omitempty"`
}

// ClusterScope holds cluster-scoped installation parameters.
type ClusterScope struct {
	ReleaseNamespace string `json:"releaseNamespace"`
}

// ReleaseNamespace returns the namespace the extension is installed into,
// or "" for a namespace-scoped extension.
func (e *Extension) ReleaseNamespace() string {
	if e.Scope.Cluster == nil {
		return ""
	}
	return e.Scope.Cluster.ReleaseNamespace
}

// Cluster identifies the managed cluster an extension belongs to.
type Cluster struct {
	Name          string
	ResourceGroup string
	Type          string
	Subscription  string
}
