package verifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/kubeext/extverify/pkg/bucket"
)

// Probe checks one source of extension runtime data.
type Probe interface {
	Name() string
	Check(ctx context.Context) (bool, error)
}

// Checker reports onboarding once every configured probe sees runtime data.
// The predicate is monotonic in practice: once an export has delivered and
// the workload is ready, they stay that way until the extension is deleted.
type Checker struct {
	log    logr.Logger
	probes []Probe
}

// NewChecker creates a Checker over the given probes.
func NewChecker(log logr.Logger, probes ...Probe) *Checker {
	return &Checker{
		log:    log,
		probes: probes,
	}
}

var _ OnboardChecker = &Checker{}

// Onboarded implements OnboardChecker.
func (c *Checker) Onboarded(ctx context.Context) (bool, error) {
	if len(c.probes) == 0 {
		return false, errors.New("no onboarding probes configured")
	}
	for _, p := range c.probes {
		ok, err := p.Check(ctx)
		if err != nil {
			return false, fmt.Errorf("%s probe: %w", p.Name(), err)
		}
		if !ok {
			c.log.V(1).Info("no extension data yet", "probe", p.Name())
			return false, nil
		}
	}
	return true, nil
}

// StorageProbe is true when the export has delivered at least one artifact
// under Prefix.
type StorageProbe struct {
	Bucket bucket.Bucket
	Prefix string
}

func (p *StorageProbe) Name() string { return "storage" }

func (p *StorageProbe) Check(ctx context.Context) (bool, error) {
	keys, err := p.Bucket.List(ctx, p.Prefix)
	if err != nil {
		return false, err
	}
	return len(keys) > 0, nil
}

// WorkloadProbe is true when the extension's pods in Namespace are all
// running and ready, and at least one exists.
type WorkloadProbe struct {
	Reader    client.Reader
	Namespace string
}

// NewWorkloadProbe creates a WorkloadProbe using a fresh client for cfg.
func NewWorkloadProbe(cfg *rest.Config, namespace string) (*WorkloadProbe, error) {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, err
	}
	c, err := client.New(cfg, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create a Kubernetes client: %w", err)
	}
	return &WorkloadProbe{
		Reader:    c,
		Namespace: namespace,
	}, nil
}

func (p *WorkloadProbe) Name() string { return "workload" }

func (p *WorkloadProbe) Check(ctx context.Context) (bool, error) {
	pods := &corev1.PodList{}
	if err := p.Reader.List(ctx, pods, client.InNamespace(p.Namespace)); err != nil {
		return false, err
	}
	if len(pods.Items) == 0 {
		return false, nil
	}
	for _, pod := range pods.Items {
		if pod.Status.Phase != corev1.PodRunning {
			return false, nil
		}
		if !podReady(&pod) {
			return false, nil
		}
	}
	return true, nil
}

func podReady(pod *corev1.Pod) bool {
	for _, cond := range pod.Status.Conditions {
		if cond.Type == corev1.PodReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}
