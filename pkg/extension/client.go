// Package extension drives cluster-extension lifecycle operations through
// the az k8s-extension CLI.
package extension

import (
	"context"
	"fmt"
	"sort"

	"github.com/kubeext/extverify/pkg/azcli"
)

// Client issues k8s-extension commands against a single managed cluster.
type Client struct {
	runner  azcli.CommandRunner
	cluster Cluster
}

// NewClient creates a Client for the given cluster.
func NewClient(runner azcli.CommandRunner, cluster Cluster) *Client {
	return &Client{
		runner:  runner,
		cluster: cluster,
	}
}

// CreateOptions are the optional parameters of Create.
type CreateOptions struct {
	ReleaseTrain string

	// Settings become --configuration-settings key=value arguments.
	Settings map[string]string
}

func (c *Client) baseArgs(subcommand string) []string {
	args := []string{
		"k8s-extension", subcommand,
		"--cluster-name", c.cluster.Name,
		"--resource-group", c.cluster.ResourceGroup,
		"--cluster-type", c.cluster.Type,
	}
	if c.cluster.Subscription != "" {
		args = append(args, "--subscription", c.cluster.Subscription)
	}
	return args
}

// Create installs an extension of extType named name on the cluster and
// returns the created resource.
func (c *Client) Create(ctx context.Context, name, extType string, opts CreateOptions) (*Extension, error) {
	args := append(c.baseArgs("create"),
		"--name", name,
		"--extension-type", extType,
	)
	if opts.ReleaseTrain != "" {
		args = append(args, "--release-train", opts.ReleaseTrain)
	}
	if len(opts.Settings) > 0 {
		args = append(args, "--configuration-settings")
		keys := make([]string, 0, len(opts.Settings))
		for k := range opts.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			args = append(args, fmt.Sprintf("%s=%s", k, opts.Settings[k]))
		}
	}

	ext := &Extension{}
	if err := azcli.RunJSON(ctx, c.runner, ext, args...); err != nil {
		return nil, fmt.Errorf("failed to create extension %s: %w", name, err)
	}
	return ext, nil
}

// Show fetches the extension named name.  It fails if the extension does
// not exist.
func (c *Client) Show(ctx context.Context, name string) (*Extension, error) {
	args := append(c.baseArgs("show"), "--name", name)

	ext := &Extension{}
	if err := azcli.RunJSON(ctx, c.runner, ext, args...); err != nil {
		return nil, fmt.Errorf("failed to show extension %s: %w", name, err)
	}
	return ext, nil
}

// List returns all extensions installed on the cluster.
func (c *Client) List(ctx context.Context) ([]Extension, error) {
	var exts []Extension
	if err := azcli.RunJSON(ctx, c.runner, &exts, c.baseArgs("list")...); err != nil {
		return nil, fmt.Errorf("failed to list extensions: %w", err)
	}
	return exts, nil
}

// Delete removes the extension named name.  With force, deletion proceeds
// even if the cluster is unreachable.
func (c *Client) Delete(ctx context.Context, name string, force bool) error {
	args := append(c.baseArgs("delete"), "--name", name, "--yes")
	if force {
		args = append(args, "--force")
	}

	if _, _, err := c.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to delete extension %s: %w", name, err)
	}
	return nil
}
