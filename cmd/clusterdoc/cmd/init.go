package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter .clusterdoc.yaml in the current directory with an
ssh backend section. Switch to the docker or k8s sections by replacing
the ssh section; exactly one backend section may be present.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

// starterConfig mirrors the config schema for the generated file. A struct
// keeps the yaml output in a sensible section order.
type starterConfig struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	SSH struct {
		Hosts string `yaml:"hosts"`
		User  string `yaml:"user"`
		Key   string `yaml:"key"`
	} `yaml:"ssh"`
	API struct {
		URL      string `yaml:"url"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Insecure bool   `yaml:"insecure"`
	} `yaml:"api"`
	Exec struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"exec"`
	Report struct {
		File string `yaml:"file"`
	} `yaml:"report"`
	Serve struct {
		Addr    string   `yaml:"addr"`
		Origins []string `yaml:"origins"`
	} `yaml:"serve"`
}

func runInit(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	configPath := filepath.Join(cwd, ".clusterdoc.yaml")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("configuration already exists, use --force to overwrite")
	}

	var starter starterConfig
	starter.Log.Level = "info"
	starter.Log.Format = "auto"
	starter.SSH.Hosts = "node1,node2,node3"
	starter.SSH.User = "admin"
	starter.SSH.Key = ""
	starter.API.URL = ""
	starter.Exec.Timeout = "5m"
	starter.Report.File = ""
	starter.Serve.Addr = "127.0.0.1:8970"
	starter.Serve.Origins = []string{"*"}

	body, err := yaml.Marshal(&starter)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	content := append([]byte("# clusterdoc configuration\n"), body...)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
