package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meilikit/src/pkg/meili"
)

func TestLoadTestConfig_Defaults(t *testing.T) {
	t.Setenv("MEILI_HOST", "")
	t.Setenv("MEILI_MASTER_KEY", "masterKey")
	unsetenv(t, "REQUEST_TIMEOUT")

	config, err := LoadTestConfig()
	require.NoError(t, err)

	assert.True(t, config.UsesStandIn())
	assert.Equal(t, "masterKey", config.MasterKey)
	assert.Equal(t, 10*time.Second, config.RequestTimeout)
}

func TestLoadTestConfig_Invalid(t *testing.T) {
	t.Setenv("MEILI_HOST", "localhost")
	t.Setenv("MEILI_MASTER_KEY", "masterKey")
	t.Setenv("REQUEST_TIMEOUT", "0s")

	_, err := LoadTestConfig()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "MEILI_HOST")
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestLoadTestConfig_BadDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := LoadTestConfig()
	assert.ErrorIs(t, err, ErrParsingConfig)
}

func TestNewClients_StandIn(t *testing.T) {
	config := &TestConfig{MasterKey: "masterKey", RequestTimeout: 5 * time.Second}
	ctx := context.Background()

	clients, err := NewClients(ctx, config)
	require.NoError(t, err)
	defer clients.Close()

	assert.NotEmpty(t, clients.PrivateKey)
	assert.NotEmpty(t, clients.PublicKey)
	assert.NotEqual(t, clients.PrivateKey, clients.PublicKey)

	_, err = clients.Private.CreateIndex(ctx, meili.CreateIndexRequest{UID: "movies"})
	require.NoError(t, err)

	require.NoError(t, ClearAllIndexes(ctx, clients.Master))
	indexes, err := clients.Master.ListIndexes(ctx)
	require.NoError(t, err)
	assert.Empty(t, indexes)
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}
