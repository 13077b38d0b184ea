package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9090
  base_url: http://blog.test
mongo:
  database: blog_test
jwt:
  secret: s1
  refresh_secret: s2
kafka:
  brokers: [a:9092, b:9092]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

	require.NoError(t, LoadConfigFrom(dir))

	assert.Equal(t, 9090, Cfg.Server.Port)
	assert.Equal(t, "http://blog.test", Cfg.Server.BaseURL)
	assert.Equal(t, "blog_test", Cfg.Mongo.Database)
	assert.Equal(t, []string{"a:9092", "b:9092"}, Cfg.Kafka.Brokers)
	// defaults
	assert.Equal(t, "public/images/default.png", Cfg.Server.DefaultImage)
	assert.Equal(t, 60*24, Cfg.JWT.Expire)
	assert.Equal(t, "0 */10 * * * *", Cfg.Jobs.MediaCleanupSpec)
}

func TestLoadConfigFrom_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("jwt:\n  secret: s1\n  refresh_secret: s2\n"), 0o600))
	t.Setenv("BLOGSTONE_MONGO_DATABASE", "from_env")

	require.NoError(t, LoadConfigFrom(dir))
	assert.Equal(t, "from_env", Cfg.Mongo.Database)
}

func TestLoadConfigFrom_MissingSecrets(t *testing.T) {
	err := LoadConfigFrom(t.TempDir())
	require.Error(t, err)
}
