package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigFile(writeConfig(t, "ssh:\n  hosts: node1\n")).Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Equal(t, "5m", cfg.Exec.Timeout)
	assert.Equal(t, "127.0.0.1:8970", cfg.Serve.Addr)
}

func TestLoader_SSHSection(t *testing.T) {
	path := writeConfig(t, `
ssh:
  hosts: node1, node2, node3
  user: admin
  key: /etc/keys/cluster
`)

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.SSH)
	assert.Equal(t, "node1, node2, node3", cfg.SSH.Hosts)
	assert.Equal(t, "admin", cfg.SSH.User)
	assert.Equal(t, "/etc/keys/cluster", cfg.SSH.Key)
	assert.Nil(t, cfg.Docker)
	assert.Nil(t, cfg.K8s)
}

func TestLoader_K8sSection(t *testing.T) {
	path := writeConfig(t, `
k8s:
  pods: pod-0,pod-1
  namespace: prod
api:
  url: https://cluster.local:9443
  user: admin
  password: secret
`)

	cfg, err := NewLoader().WithConfigFile(path).Load()
	require.NoError(t, err)

	require.NotNil(t, cfg.K8s)
	assert.Equal(t, "prod", cfg.K8s.Namespace)
	assert.Equal(t, "https://cluster.local:9443", cfg.API.URL)
	assert.Nil(t, cfg.SSH)
}

func TestLoader_AbsentSectionsStayNil(t *testing.T) {
	cfg, err := NewLoader().WithConfigFile(writeConfig(t, "log:\n  level: debug\n")).Load()
	require.NoError(t, err)

	assert.Nil(t, cfg.SSH)
	assert.Nil(t, cfg.Docker)
	assert.Nil(t, cfg.K8s)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("CLUSTERDOC_LOG_LEVEL", "error")

	cfg, err := NewLoader().WithConfigFile(writeConfig(t, "ssh:\n  hosts: n1\n")).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoader_MalformedFile(t *testing.T) {
	path := writeConfig(t, "ssh: [unclosed\n")

	_, err := NewLoader().WithConfigFile(path).Load()
	assert.Error(t, err)
}
