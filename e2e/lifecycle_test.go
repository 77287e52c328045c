package e2e

import (
	"bytes"
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubeext/extverify/pkg/bucket"
	"github.com/kubeext/extverify/pkg/wait"
	"github.com/kubeext/extverify/verifier"
)

const (
	extensionName = "costexport"
	extensionType = "costexport"
)

func testLifecycle() {
	It("should create the extension with auto upgrade enabled", func() {
		azSafe(extensionArgs("create",
			"--name", extensionName,
			"--extension-type", extensionType,
			"--release-train", "Stable",
			"--configuration-settings",
			"storageAccount="+storageAccountID,
			"storageContainer=cost",
			"-o", "json")...)

		ext, err := showExtension(extensionName)
		Expect(err).NotTo(HaveOccurred())
		Expect(ext.Name).NotTo(BeEmpty())
		Expect(ext.AutoUpgradeMinorVersion).To(BeTrue())
	})

	It("should onboard within the retry budget", func() {
		if storageURL == "" {
			Skip("STORAGE_SERVICE_URL is not set")
		}

		cred, err := azidentity.NewDefaultAzureCredential(nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := bucket.NewAzureBucket(storageURL, "cost", cred)
		Expect(err).NotTo(HaveOccurred())

		checker := verifier.NewChecker(logr.Discard(), &verifier.StorageProbe{
			Bucket: b,
			Prefix: extensionName + "/",
		})
		err = wait.Poll(context.Background(), checker.Onboarded, wait.Options{
			Interval:    10 * time.Second,
			MaxAttempts: 30,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should show a non-empty extension", func() {
		ext, err := showExtension(extensionName)
		Expect(err).NotTo(HaveOccurred())
		Expect(ext.Name).NotTo(BeEmpty())
	})

	It("should appear in the extension list", func() {
		exts, err := listExtensions()
		Expect(err).NotTo(HaveOccurred())
		Expect(exts).NotTo(BeEmpty())

		var types []string
		for _, e := range exts {
			types = append(types, e.ExtensionType)
		}
		Expect(types).To(ContainElement(extensionType))
	})

	It("should delete the extension", func() {
		azSafe(extensionArgs("delete", "--name", extensionName, "--yes", "--force")...)

		stdout, _, err := az(extensionArgs("show", "--name", extensionName, "-o", "json")...)
		Expect(err).To(HaveOccurred())
		Expect(bytes.TrimSpace(stdout)).To(BeEmpty())
	})

	It("should no longer appear in the extension list", func() {
		exts, err := listExtensions()
		Expect(err).NotTo(HaveOccurred())
		Expect(exts).NotTo(BeEmpty())

		for _, e := range exts {
			Expect(e.ExtensionType).NotTo(Equal(extensionType))
		}
	})
}
