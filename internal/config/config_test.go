package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "ringwatch-config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestLoadConfig(t *testing.T) {
	yaml := `
general:
  instance_id: "test-node"
  log_level: "debug"
  log_format: "text"

analysis:
  threshold: 0.6
  min_cluster_size: 4
  positive_actions:
    - follow
    - like

ingest:
  kafka:
    enabled: true
    brokers:
      - "localhost:19092"
    topic: "events.test"

storage:
  backend: "postgres"
  dsn: "postgres://localhost:5432/ringwatch_test"

api:
  listen: ":9999"
  allowed_origins: "http://localhost:3000"
`
	cfg, err := Load(writeTemp(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, "test-node", cfg.General.InstanceID)
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, 0.6, cfg.Analysis.Threshold)
	assert.Equal(t, 4, cfg.Analysis.MinClusterSize)
	assert.Equal(t, []string{"follow", "like"}, cfg.Analysis.PositiveActions)
	assert.True(t, cfg.Ingest.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:19092"}, cfg.Ingest.Kafka.Brokers)
	assert.Equal(t, "events.test", cfg.Ingest.Kafka.Topic)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, ":9999", cfg.API.Listen)
	assert.Equal(t, "http://localhost:3000", cfg.API.AllowedOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	yaml := `
general:
  instance_id: "defaults-node"
`
	cfg, err := Load(writeTemp(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, "json", cfg.General.LogFormat)
	assert.Equal(t, 0.3, cfg.Analysis.Threshold)
	assert.Equal(t, 3, cfg.Analysis.MinClusterSize)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Ingest.Kafka.Brokers)
	assert.Equal(t, "ringwatch.events", cfg.Ingest.Kafka.Topic)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, ":8090", cfg.API.Listen)
}

func TestLoadConfigEnvExpansion(t *testing.T) {
	t.Setenv("TEST_RINGWATCH_TOPIC", "events.env")

	yaml := `
ingest:
  kafka:
    topic: "${TEST_RINGWATCH_TOPIC}"
`
	cfg, err := Load(writeTemp(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, "events.env", cfg.Ingest.Kafka.Topic)
}

func TestLoadConfigNormalizesAnalysis(t *testing.T) {
	yaml := `
analysis:
  threshold: 1.5
  action_ngram_size: 9
`
	cfg, err := Load(writeTemp(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, 0.3, cfg.Analysis.Threshold)
	assert.Equal(t, 5, cfg.Analysis.ActionNgramSize)
}
