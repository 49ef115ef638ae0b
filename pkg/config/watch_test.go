package config_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/config"
	"github.com/papercomputeco/lingo/pkg/logger"
)

var _ = Describe("Watch", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-watch-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("delivers the reloaded config after a write", func() {
		c, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes := make(chan *config.Config, 4)
		done := make(chan error, 1)
		go func() {
			done <- c.Watch(ctx, logger.Nop(), func(cfg *config.Config) { changes <- cfg })
		}()

		// Give the watcher time to register before writing.
		time.Sleep(100 * time.Millisecond)

		path := filepath.Join(tmpDir, "config.toml")
		Expect(os.WriteFile(path, []byte("[provider]\ntype = \"gemini\"\n"), 0o600)).To(Succeed())

		var got *config.Config
		Eventually(changes, 5*time.Second).Should(Receive(&got))
		Expect(got.Provider.Type).To(Equal("gemini"))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})

	It("ignores other files in the directory", func() {
		c, err := config.NewConfiger(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes := make(chan *config.Config, 1)
		go func() {
			_ = c.Watch(ctx, logger.Nop(), func(cfg *config.Config) { changes <- cfg })
		}()

		time.Sleep(100 * time.Millisecond)
		Expect(os.WriteFile(filepath.Join(tmpDir, "credentials.toml"), []byte("x"), 0o600)).To(Succeed())

		Consistently(changes, 300*time.Millisecond).ShouldNot(Receive())
	})

	It("refuses an empty target", func() {
		c := &config.Configer{}
		err := c.Watch(context.Background(), logger.Nop(), func(*config.Config) {})
		Expect(err).To(MatchError(ContainSubstring("empty target path")))
	})
})
