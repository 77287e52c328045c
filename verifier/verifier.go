// Package verifier runs the end-to-end lifecycle verification of a cluster
// extension: create, poll for onboarding, show, list, delete, and confirm
// the extension is gone.
package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/kubeext/extverify/pkg/extension"
	"github.com/kubeext/extverify/pkg/metrics"
	"github.com/kubeext/extverify/pkg/wait"
)

// Step names used in logs and metrics.
const (
	StepCreate         = "create"
	StepOnboarding     = "onboarding"
	StepShow           = "show"
	StepList           = "list"
	StepDelete         = "delete"
	StepPostDeleteList = "post-delete-list"
)

// ExtensionClient is the subset of the k8s-extension CLI the verifier needs.
type ExtensionClient interface {
	Create(ctx context.Context, name, extType string, opts extension.CreateOptions) (*extension.Extension, error)
	Show(ctx context.Context, name string) (*extension.Extension, error)
	List(ctx context.Context) ([]extension.Extension, error)
	Delete(ctx context.Context, name string, force bool) error
}

var _ ExtensionClient = &extension.Client{}

// OnboardChecker reports whether runtime data for the extension exists.
type OnboardChecker interface {
	Onboarded(ctx context.Context) (bool, error)
}

// Options parameterize a verification run.
type Options struct {
	ExtensionName string
	ExtensionType string
	ReleaseTrain  string

	// Settings are passed to create as configuration settings.
	Settings map[string]string

	// Zero values select the wait package defaults (10s, 30 attempts).
	PollInterval    time.Duration
	PollMaxAttempts int
}

// Verifier drives one lifecycle verification at a time.
type Verifier struct {
	log     logr.Logger
	client  ExtensionClient
	checker OnboardChecker
	opts    Options
}

// New creates a Verifier.
func New(log logr.Logger, client ExtensionClient, checker OnboardChecker, opts Options) *Verifier {
	return &Verifier{
		log:     log,
		client:  client,
		checker: checker,
		opts:    opts,
	}
}

// Verify runs the lifecycle steps in order.  The first failing step aborts
// the run; only the onboarding poll tolerates transient failure, bounded by
// the attempt ceiling.
func (v *Verifier) Verify(ctx context.Context) error {
	start := time.Now()
	metrics.RunsTotalVec.WithLabelValues(v.opts.ExtensionName).Inc()

	err := v.run(ctx)

	metrics.DurationVec.WithLabelValues(v.opts.ExtensionName).Observe(time.Since(start).Seconds())
	succeeded := 0.0
	if err == nil {
		succeeded = 1.0
	}
	metrics.LastRunSucceededVec.WithLabelValues(v.opts.ExtensionName).Set(succeeded)
	return err
}

func (v *Verifier) run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StepCreate, v.createAndShow},
		{StepOnboarding, v.waitOnboarded},
		{StepShow, v.showAlive},
		{StepList, v.checkListed},
		{StepDelete, v.deleteAndConfirm},
		{StepPostDeleteList, v.checkUnlisted},
	}

	for _, s := range steps {
		v.log.Info("running verification step", "step", s.name, "extension", v.opts.ExtensionName)
		if err := s.fn(ctx); err != nil {
			metrics.StepFailuresVec.WithLabelValues(v.opts.ExtensionName, s.name).Inc()
			return fmt.Errorf("step %s: %w", s.name, err)
		}
	}

	v.log.Info("verification succeeded", "extension", v.opts.ExtensionName)
	return nil
}

func (v *Verifier) createAndShow(ctx context.Context) error {
	_, err := v.client.Create(ctx, v.opts.ExtensionName, v.opts.ExtensionType, extension.CreateOptions{
		ReleaseTrain: v.opts.ReleaseTrain,
		Settings:     v.opts.Settings,
	})
	if err != nil {
		return err
	}

	shown, err := v.client.Show(ctx, v.opts.ExtensionName)
	if err != nil {
		return err
	}
	if shown.Name == "" {
		return fmt.Errorf("show returned an empty extension")
	}
	if !shown.AutoUpgradeMinorVersion {
		return fmt.Errorf("autoUpgradeMinorVersion is false for extension %s", shown.Name)
	}
	return nil
}

func (v *Verifier) waitOnboarded(ctx context.Context) error {
	attempts := 0
	err := wait.Poll(ctx, func(ctx context.Context) (bool, error) {
		attempts++
		ok, err := v.checker.Onboarded(ctx)
		if err != nil {
			v.log.Info("onboarding check failed", "attempt", attempts, "error", err.Error())
		}
		return ok, err
	}, wait.Options{
		Interval:    v.opts.PollInterval,
		MaxAttempts: v.opts.PollMaxAttempts,
	})
	metrics.PollAttemptsVec.WithLabelValues(v.opts.ExtensionName).Set(float64(attempts))
	if err != nil {
		return fmt.Errorf("extension %s was not onboarded: %w", v.opts.ExtensionName, err)
	}

	v.log.Info("extension onboarded", "extension", v.opts.ExtensionName, "attempts", attempts)
	return nil
}

func (v *Verifier) showAlive(ctx context.Context) error {
	shown, err := v.client.Show(ctx, v.opts.ExtensionName)
	if err != nil {
		return err
	}
	if shown.Name == "" {
		return fmt.Errorf("show returned an empty extension")
	}
	return nil
}

func (v *Verifier) checkListed(ctx context.Context) error {
	exts, err := v.client.List(ctx)
	if err != nil {
		return err
	}
	if len(exts) == 0 {
		return fmt.Errorf("no extensions listed")
	}
	for _, e := range exts {
		if e.ExtensionType == v.opts.ExtensionType {
			return nil
		}
	}
	return fmt.Errorf("no extension of type %s in list", v.opts.ExtensionType)
}

func (v *Verifier) deleteAndConfirm(ctx context.Context) error {
	if err := v.client.Delete(ctx, v.opts.ExtensionName, true); err != nil {
		return err
	}

	if shown, err := v.client.Show(ctx, v.opts.ExtensionName); err == nil {
		return fmt.Errorf("extension %s is still visible after delete (state %s)", v.opts.ExtensionName, shown.ProvisioningState)
	}
	return nil
}

func (v *Verifier) checkUnlisted(ctx context.Context) error {
	exts, err := v.client.List(ctx)
	if err != nil {
		return err
	}
	if len(exts) == 0 {
		return fmt.Errorf("no extensions listed")
	}
	for _, e := range exts {
		if e.ExtensionType == v.opts.ExtensionType {
			return fmt.Errorf("extension of type %s is still listed after delete", v.opts.ExtensionType)
		}
	}
	return nil
}
