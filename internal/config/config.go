package config

import "time"

// Config holds all application configuration.
//
// Exactly one of the SSH, Docker, or K8s sections must be present; the
// active section selects the transport backend for the whole run.
type Config struct {
	Log    LogConfig     `mapstructure:"log"`
	SSH    *SSHConfig    `mapstructure:"ssh"`
	Docker *DockerConfig `mapstructure:"docker"`
	K8s    *K8sConfig    `mapstructure:"k8s"`
	API    APIConfig     `mapstructure:"api"`
	Exec   ExecConfig    `mapstructure:"exec"`
	Report ReportConfig  `mapstructure:"report"`
	Serve  ServeConfig   `mapstructure:"serve"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SSHConfig configures the direct-shell backend.
type SSHConfig struct {
	Hosts string `mapstructure:"hosts"` // comma-separated hostnames
	User  string `mapstructure:"user"`  // optional login user
	Key   string `mapstructure:"key"`   // optional identity file
}

// DockerConfig configures the container-runtime backend.
type DockerConfig struct {
	Containers string `mapstructure:"containers"` // comma-separated container names
}

// K8sConfig configures the orchestrator backend.
type K8sConfig struct {
	Pods      string `mapstructure:"pods"` // comma-separated pod names
	Namespace string `mapstructure:"namespace"`
}

// APIConfig configures the management API client.
type APIConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Insecure bool   `mapstructure:"insecure"` // skip TLS verification
}

// ExecConfig configures remote command execution.
type ExecConfig struct {
	Timeout string `mapstructure:"timeout"` // per-command timeout, Go duration
}

// ParseTimeout parses the configured timeout. An empty value yields zero,
// leaving the choice of default to the caller.
func (c ExecConfig) ParseTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}

// ReportConfig configures report output.
type ReportConfig struct {
	File string `mapstructure:"file"` // JSON report path, empty disables
}

// ServeConfig configures the report HTTP server.
type ServeConfig struct {
	Addr    string   `mapstructure:"addr"`
	Origins []string `mapstructure:"origins"`
}
