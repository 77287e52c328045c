package bucket

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"google.golang.org/api/option"
)

var _ = Describe("GCSBucket", func() {
	ctx := context.Background()
	var dataDir string

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "")
		Expect(err).NotTo(HaveOccurred())
		err = os.Mkdir(filepath.Join(dir, "cost"), os.ModePerm)
		Expect(err).NotTo(HaveOccurred())
		dataDir = dir
		err = exec.Command("docker", "run", "--rm", "--name=extverify-fake-gcs", "-d", "-p", "4443:4443",
			"-v", fmt.Sprintf("%s:/data", dir),
			"fsouza/fake-gcs-server", "-scheme", "http", "-public-host=localhost:4443", "-port=4443").Run()
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() error {
			client, err := storage.NewClient(ctx, option.WithEndpoint("http://localhost:4443/storage/v1/"), option.WithoutAuthentication())
			if err != nil {
				return err
			}
			_, err = client.Bucket("cost").Attrs(ctx)
			return err
		}, 60).Should(Succeed())
	})

	AfterEach(func() {
		exec.Command("docker", "kill", "extverify-fake-gcs").Run()
		time.Sleep(1 * time.Second)
		os.RemoveAll(dataDir)
	})

	It("should put, get, and list export artifacts", func() {
		b, err := NewGCSBucket(ctx, "cost", option.WithEndpoint("http://localhost:4443/storage/v1/"), option.WithoutAuthentication())
		Expect(err).NotTo(HaveOccurred())

		body := "Date,ResourceGroup,Cost\n2026-08-01,mc_rg,12.34\n"
		err = b.Put(ctx, "costexport/20260801-20260831/part_0_0001.csv", strings.NewReader(body), int64(len(body)))
		Expect(err).NotTo(HaveOccurred())

		r, err := b.Get(ctx, "costexport/20260801-20260831/part_0_0001.csv")
		Expect(err).NotTo(HaveOccurred())
		defer r.Close()
		data, err := io.ReadAll(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(body))

		keys, err := b.List(ctx, "costexport/")
		Expect(err).NotTo(HaveOccurred())
		Expect(keys).To(HaveLen(1))
	})
})
