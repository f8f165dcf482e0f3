package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateBackends(cfg)
	v.validateAPI(&cfg.API)
	v.validateExec(&cfg.Exec)
	v.validateServe(&cfg.Serve)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: msg,
	})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"auto": true, "text": true, "json": true,
	}
	if !validFormats[cfg.Format] {
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateBackends(cfg *Config) {
	var active []string
	if cfg.SSH != nil {
		active = append(active, "ssh")
		if strings.TrimSpace(cfg.SSH.Hosts) == "" {
			v.addError("ssh.hosts", cfg.SSH.Hosts, "at least one host required")
		}
	}
	if cfg.Docker != nil {
		active = append(active, "docker")
		if strings.TrimSpace(cfg.Docker.Containers) == "" {
			v.addError("docker.containers", cfg.Docker.Containers, "at least one container required")
		}
	}
	if cfg.K8s != nil {
		active = append(active, "k8s")
		if strings.TrimSpace(cfg.K8s.Pods) == "" {
			v.addError("k8s.pods", cfg.K8s.Pods, "at least one pod required")
		}
		if strings.TrimSpace(cfg.K8s.Namespace) == "" {
			v.addError("k8s.namespace", cfg.K8s.Namespace, "namespace required")
		}
	}

	switch len(active) {
	case 0:
		v.addError("backend", nil, "one of ssh, docker, or k8s must be configured")
	case 1:
	default:
		v.addError("backend", strings.Join(active, ","), "only one backend section may be configured")
	}
}

func (v *Validator) validateAPI(cfg *APIConfig) {
	if cfg.URL == "" {
		return // API checks are optional
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		v.addError("api.url", cfg.URL, "must be an absolute URL")
	}
}

func (v *Validator) validateExec(cfg *ExecConfig) {
	if cfg.Timeout == "" {
		return
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		v.addError("exec.timeout", cfg.Timeout, "must be a valid duration (e.g. 5m)")
	} else if d <= 0 {
		v.addError("exec.timeout", cfg.Timeout, "must be positive")
	}
}

func (v *Validator) validateServe(cfg *ServeConfig) {
	if cfg.Addr == "" {
		v.addError("serve.addr", cfg.Addr, "listen address required")
	}
}
