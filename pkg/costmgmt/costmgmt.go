// Package costmgmt inspects the cost-management export job backing a
// cost-export extension.
package costmgmt

import (
	"context"
	"fmt"

	"github.com/kubeext/extverify/pkg/azcli"
)

// Expected attributes of an export created by the cost-export extension.
const (
	TimeframeMonthToDate = "MonthToDate"
	TypeUsage            = "Usage"
	RecurrenceDaily      = "Daily"
	ScheduleActive       = "Active"
)

// Export mirrors the JSON emitted by "az costmanagement export show".
type Export struct {
	Name       string `json:"name"`
	Definition struct {
		Timeframe string `json:"timeframe"`
		Type      string `json:"type"`
	} `json:"definition"`
	DeliveryInfo struct {
		Destination struct {
			Container  string `json:"container"`
			ResourceID string `json:"resourceId"`
		} `json:"destination"`
	} `json:"deliveryInfo"`
	Schedule struct {
		Recurrence string `json:"recurrence"`
		Status     string `json:"status"`
	} `json:"schedule"`
}

// Client reads cost-management exports through the az CLI.
type Client struct {
	runner       azcli.CommandRunner
	subscription string
}

// NewClient creates a Client for the given subscription.
func NewClient(runner azcli.CommandRunner, subscription string) *Client {
	return &Client{
		runner:       runner,
		subscription: subscription,
	}
}

// Scope returns the resource group scope exports for a cluster are created
// under.
func Scope(subscription, resourceGroup string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", subscription, resourceGroup)
}

// Show fetches the export named name under scope.
func (c *Client) Show(ctx context.Context, name, scope string) (*Export, error) {
	export := &Export{}
	err := azcli.RunJSON(ctx, c.runner, export,
		"costmanagement", "export", "show",
		"--name", name,
		"--scope", scope,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to show cost export %s: %w", name, err)
	}
	return export, nil
}

// NodeResourceGroup returns the auto-managed resource group holding the
// cluster's nodes.  The cost-export extension scopes its export there.
func (c *Client) NodeResourceGroup(ctx context.Context, clusterName, resourceGroup string) (string, error) {
	var out struct {
		NodeResourceGroup string `json:"nodeResourceGroup"`
	}
	err := azcli.RunJSON(ctx, c.runner, &out,
		"aks", "show",
		"--name", clusterName,
		"--resource-group", resourceGroup,
		"--subscription", c.subscription,
	)
	if err != nil {
		return "", fmt.Errorf("failed to get node resource group of %s: %w", clusterName, err)
	}
	if out.NodeResourceGroup == "" {
		return "", fmt.Errorf("cluster %s has no node resource group", clusterName)
	}
	return out.NodeResourceGroup, nil
}

// Validate checks that an export carries the attributes the cost-export
// extension creates it with.
func (e *Export) Validate(container string) error {
	if e.Definition.Timeframe != TimeframeMonthToDate {
		return fmt.Errorf("unexpected timeframe %q", e.Definition.Timeframe)
	}
	if e.Definition.Type != TypeUsage {
		return fmt.Errorf("unexpected export type %q", e.Definition.Type)
	}
	if e.Schedule.Recurrence != RecurrenceDaily {
		return fmt.Errorf("unexpected recurrence %q", e.Schedule.Recurrence)
	}
	if e.Schedule.Status != ScheduleActive {
		return fmt.Errorf("unexpected schedule status %q", e.Schedule.Status)
	}
	if container != "" && e.DeliveryInfo.Destination.Container != container {
		return fmt.Errorf("export delivers to container %q, not %q", e.DeliveryInfo.Destination.Container, container)
	}
	return nil
}
