// Package azcli runs the az command-line tool and decodes its JSON output.
package azcli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"golang.org/x/time/rate"
)

const (
	// DefaultQPS is the default rate limit for az invocations.
	// ARM throttles aggressive clients, so keep this low.
	DefaultQPS rate.Limit = 2

	// DefaultBurst is the default burst size for az invocations.
	DefaultBurst = 5
)

// CommandRunner is the interface for invoking the az CLI.
type CommandRunner interface {
	// Run executes az with the given arguments and returns the captured
	// stdout and stderr.  A non-zero exit status is returned as an error.
	Run(ctx context.Context, args ...string) (stdout, stderr []byte, err error)
}

// Runner runs a real az binary.
type Runner struct {
	bin     string
	limiter *rate.Limiter
}

var _ CommandRunner = &Runner{}

// Option configures a Runner.
type Option func(*Runner)

// WithBinary sets the path of the az binary.
func WithBinary(path string) Option {
	return func(r *Runner) {
		r.bin = path
	}
}

// WithRateLimit sets the invocation rate limit.
func WithRateLimit(qps rate.Limit, burst int) Option {
	return func(r *Runner) {
		r.limiter = rate.NewLimiter(qps, burst)
	}
}

// NewRunner creates a Runner for the az binary found in PATH.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		bin:     "az",
		limiter: rate.NewLimiter(DefaultQPS, DefaultBurst),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) Run(ctx context.Context, args ...string) ([]byte, []byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, r.bin, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return stdout.Bytes(), stderr.Bytes(), fmt.Errorf("%s %v failed. stderr: %s, err: %w", r.bin, args, stderr.Bytes(), err)
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

// RunJSON invokes az with "-o json" appended and unmarshals stdout into out.
func RunJSON(ctx context.Context, r CommandRunner, out interface{}, args ...string) error {
	stdout, stderr, err := r.Run(ctx, append(args, "-o", "json")...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(stdout, out); err != nil {
		return fmt.Errorf("failed to unmarshal az %v output. stdout: %s, stderr: %s, err: %w", args, stdout, stderr, err)
	}
	return nil
}
