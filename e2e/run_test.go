package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"

	. "github.com/onsi/gomega"

	"github.com/kubeext/extverify/pkg/extension"
)

func execAtLocal(cmd string, input []byte, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	command := exec.Command(cmd, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if len(input) != 0 {
		command.Stdin = bytes.NewReader(input)
	}

	err := command.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func az(args ...string) ([]byte, []byte, error) {
	return execAtLocal(azCmd, nil, args...)
}

func azSafe(args ...string) []byte {
	stdout, stderr, err := az(args...)
	ExpectWithOffset(1, err).NotTo(HaveOccurred(), "stdout=%s, stderr=%s", stdout, stderr)
	return stdout
}

func extensionArgs(subcommand string, extra ...string) []string {
	args := []string{
		"k8s-extension", subcommand,
		"--cluster-name", clusterName,
		"--resource-group", resourceGroup,
		"--cluster-type", "managedClusters",
		"--subscription", subscription,
	}
	return append(args, extra...)
}

func showExtension(name string) (*extension.Extension, error) {
	stdout, stderr, err := az(extensionArgs("show", "--name", name, "-o", "json")...)
	if err != nil {
		return nil, fmt.Errorf("failed to show extension. stdout: %s, stderr: %s, err: %w", stdout, stderr, err)
	}

	ext := &extension.Extension{}
	if err := json.Unmarshal(stdout, ext); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extension. stdout: %s, err: %w", stdout, err)
	}
	return ext, nil
}

func listExtensions() ([]extension.Extension, error) {
	stdout, stderr, err := az(extensionArgs("list", "-o", "json")...)
	if err != nil {
		return nil, fmt.Errorf("failed to list extensions. stdout: %s, stderr: %s, err: %w", stdout, stderr, err)
	}

	var exts []extension.Extension
	if err := json.Unmarshal(stdout, &exts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal extension list. stdout: %s, err: %w", stdout, err)
	}
	return exts, nil
}
