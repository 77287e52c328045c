// Package provider checks and performs Azure resource provider registration.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kubeext/extverify/pkg/azcli"
	"github.com/kubeext/extverify/pkg/wait"
)

const (
	// registrationInterval is the pause between registration state checks.
	registrationInterval = 3 * time.Second

	// registrationTimeout bounds how long EnsureRegistered waits for the
	// provider to reach the Registered state.
	registrationTimeout = 2 * time.Minute
)

// Client queries and registers resource providers on a subscription.
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

// IsRegistered reports whether the provider namespace is registered.
func (c *Client) IsRegistered(ctx context.Context, namespace string) (bool, error) {
	var out struct {
		RegistrationState string `json:"registrationState"`
	}
	err := azcli.RunJSON(ctx, c.runner, &out,
		"provider", "show",
		"--namespace", namespace,
		"--subscription", c.subscription,
	)
	if err != nil {
		return false, fmt.Errorf("failed to get registration state of %s: %w", namespace, err)
	}
	return strings.EqualFold(out.RegistrationState, "Registered"), nil
}

// EnsureRegistered registers the provider namespace if needed and waits for
// the registration to finish.
func (c *Client) EnsureRegistered(ctx context.Context, namespace string) error {
	registered, err := c.IsRegistered(ctx, namespace)
	if err != nil {
		return err
	}
	if registered {
		return nil
	}

	_, _, err = c.runner.Run(ctx,
		"provider", "register",
		"--namespace", namespace,
		"--subscription", c.subscription,
		"--consent-to-permissions",
	)
	if err != nil {
		return fmt.Errorf("failed to register resource provider %s: %w", namespace, err)
	}

	err = wait.Poll(ctx, func(ctx context.Context) (bool, error) {
		return c.IsRegistered(ctx, namespace)
	}, wait.Options{
		Interval:    registrationInterval,
		MaxAttempts: int(registrationTimeout / registrationInterval),
	})
	if err != nil {
		return fmt.Errorf("resource provider %s did not become registered: %w", namespace, err)
	}
	return nil
}
