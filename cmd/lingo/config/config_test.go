package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	configcmder "github.com/papercomputeco/lingo/cmd/lingo/config"
	"github.com/papercomputeco/lingo/pkg/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, list and preset subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list", "preset"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	run := func(args ...string) error {
		cmd := configcmder.NewConfigCmd()
		cmd.SetOut(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	load := func() *config.Config {
		cfger, err := config.NewConfiger("")
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		cfg, err := cfger.LoadConfig()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return cfg
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "lingo-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// Create a local .lingo dir so the manager picks it up
		err = os.MkdirAll(filepath.Join(tmpDir, ".lingo"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(run("set", "provider.type", "gemini")).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, ".lingo", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(load().Provider.Type).To(Equal("gemini"))
		})

		It("rejects unknown keys", func() {
			Expect(run("set", "invalid_key", "value")).NotTo(Succeed())
		})

		It("requires exactly two arguments", func() {
			Expect(run("set", "provider.type")).NotTo(Succeed())
		})

		It("rejects zero arguments", func() {
			Expect(run("set")).NotTo(Succeed())
		})

		It("rejects an out of range temperature", func() {
			Expect(run("set", "provider.temperature", "3")).NotTo(Succeed())
		})

		It("rejects an invalid timeout", func() {
			Expect(run("set", "provider.timeout", "soon")).NotTo(Succeed())
		})

		It("rejects a non-boolean stream value", func() {
			Expect(run("set", "provider.stream", "sometimes")).NotTo(Succeed())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(run("set", "provider.model", "gpt-5-nano")).To(Succeed())

			out.Reset()
			Expect(run("get", "provider.model")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("gpt-5-nano"))
		})

		It("shows the default for an unset key", func() {
			Expect(run("get", "api.listen")).To(Succeed())
			Expect(out.String()).To(ContainSubstring(":8787"))
		})

		It("rejects unknown keys", func() {
			Expect(run("get", "invalid_key")).NotTo(Succeed())
		})

		It("requires exactly one argument", func() {
			Expect(run("get")).NotTo(Succeed())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			Expect(run("list")).To(Succeed())
			for _, key := range config.ValidConfigKeys() {
				Expect(out.String()).To(ContainSubstring(key))
			}
		})

		It("rejects any arguments", func() {
			Expect(run("list", "extra")).NotTo(Succeed())
		})
	})

	Describe("preset subcommand", func() {
		It("replaces the provider section and keeps the rest", func() {
			Expect(run("set", "api.listen", ":9000")).To(Succeed())
			Expect(run("preset", "compatible")).To(Succeed())

			cfg := load()
			Expect(cfg.Provider.Type).To(Equal("compatible"))
			Expect(cfg.Provider.CustomModel).To(Equal("qwen2.5"))
			Expect(cfg.API.Listen).To(Equal(":9000"))
		})

		It("rejects unknown presets", func() {
			Expect(run("preset", "claude")).NotTo(Succeed())
		})
	})
})
