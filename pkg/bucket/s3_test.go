package bucket

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("S3Bucket", func() {
	ctx := context.Background()
	var dataDir string

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "")
		Expect(err).NotTo(HaveOccurred())
		dataDir = dir
		err = exec.Command("docker", "run", "--rm", "--name=extverify-minio", "-d", "-p", "9000:9000",
			"-v", fmt.Sprintf("%s:/data", dir),
			"minio/minio", "server", "/data").Run()
		Expect(err).NotTo(HaveOccurred())

		Eventually(func() error {
			conn, err := net.Dial("tcp", "localhost:9000")
			if err != nil {
				return err
			}
			conn.Close()
			return nil
		}, 60).Should(Succeed())

		cfg, err := config.LoadDefaultConfig(ctx, config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     "minioadmin",
				SecretAccessKey: "minioadmin",
				Source:          "minio default credentials",
			},
		}))
		Expect(err).NotTo(HaveOccurred())
		client := s3.NewFromConfig(cfg,
			s3.WithEndpointResolver(s3.EndpointResolverFromURL("http://localhost:9000")),
			WithPathStyle(),
		)

		cbi := &s3.CreateBucketInput{
			Bucket: aws.String("cost"),
		}
		_, err = client.CreateBucket(ctx, cbi)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		exec.Command("docker", "kill", "extverify-minio").Run()
		time.Sleep(1 * time.Second)
		os.RemoveAll(dataDir)
	})

	It("should put, get, and list export artifacts", func() {
		b, err := NewS3Bucket("cost",
			WithEndpointURL("http://localhost:9000"),
			WithPathStyle(),
			WithCredentials(credentials.StaticCredentialsProvider{
				Value: aws.Credentials{
					AccessKeyID:     "minioadmin",
					SecretAccessKey: "minioadmin",
				},
			}),
			WithRegion("us-east-1"),
		)
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
