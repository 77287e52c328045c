package verifier

import (
	"context"
	"errors"

	"github.com/kubeext/extverify/pkg/extension"
)

// mockClient simulates the extension service behind the az CLI.
type mockClient struct {
	// state
	created bool
	deleted bool
	calls   []string

	// behavior knobs
	extType     string
	autoUpgrade bool
	others      []extension.Extension
	ghost       bool // keep answering show after delete
	lingering   bool // keep the entry listed after delete
	createErr   error
	listErr     error
	deleteErr   error
}

var _ ExtensionClient = &mockClient{}

func newMockClient() *mockClient {
	return &mockClient{
		extType:     "costexport",
		autoUpgrade: true,
		others: []extension.Extension{
			{Name: "flux", ExtensionType: "microsoft.flux"},
		},
	}
}

func (m *mockClient) current(name string) *extension.Extension {
	return &extension.Extension{
		Name:                    name,
		ExtensionType:           m.extType,
		AutoUpgradeMinorVersion: m.autoUpgrade,
		ReleaseTrain:            "Stable",
		ProvisioningState:       "Succeeded",
	}
}

func (m *mockClient) Create(_ context.Context, name, extType string, opts extension.CreateOptions) (*extension.Extension, error) {
	m.calls = append(m.calls, "create")
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = true
	return m.current(name), nil
}

func (m *mockClient) Show(_ context.Context, name string) (*extension.Extension, error) {
	m.calls = append(m.calls, "show")
	if m.created && (!m.deleted || m.ghost) {
		return m.current(name), nil
	}
	return nil, errors.New("ExtensionNotFound")
}

func (m *mockClient) List(_ context.Context) ([]extension.Extension, error) {
	m.calls = append(m.calls, "list")
	if m.listErr != nil {
		return nil, m.listErr
	}
	exts := append([]extension.Extension{}, m.others...)
	if m.created && (!m.deleted || m.lingering) {
		exts = append(exts, *m.current("costexport"))
	}
	return exts, nil
}

func (m *mockClient) Delete(_ context.Context, name string, force bool) error {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = true
	return nil
}

// mockChecker succeeds from the succeedAt-th call on.  Zero never succeeds.
type mockChecker struct {
	succeedAt int
	err       error
	calls     int
}

func (c *mockChecker) Onboarded(_ context.Context) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.succeedAt > 0 && c.calls >= c.succeedAt, nil
}
