package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meilikit/src/pkg/config"
	"meilikit/src/pkg/meili"
	"meilikit/src/pkg/meilitest"
)

const testMasterKey = "masterKey"

type testEnv struct {
	srv *meilitest.Server
	url string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv := meilitest.New(meilitest.Options{MasterKey: testMasterKey})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, url: ts.URL}
}

// run executes meilictl against the stand-in with key and returns stdout
func (e *testEnv) run(t *testing.T, key string, args ...string) (string, error) {
	t.Helper()

	rootCmd := NewRootCommand("test")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(append([]string{"--no-color", "--host", e.url, "--api-key", key}, args...))

	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestIndexesCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, testMasterKey, "indexes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No indexes found.")

	out, err = env.run(t, testMasterKey, "indexes", "create", "movies", "--primary-key", "id")
	require.NoError(t, err)
	assert.Contains(t, out, "Index movies ready")
	assert.Contains(t, out, "Primary key: id")

	_, err = env.run(t, testMasterKey, "indexes", "create", "books")
	require.NoError(t, err)

	out, err = env.run(t, testMasterKey, "indexes", "list", "--json")
	require.NoError(t, err)
	var indexes []meili.IndexResponse
	require.NoError(t, json.Unmarshal([]byte(out), &indexes))
	assert.Len(t, indexes, 2)

	out, err = env.run(t, testMasterKey, "indexes", "show", "books")
	require.NoError(t, err)
	assert.Contains(t, out, "not set")

	_, err = env.run(t, testMasterKey, "indexes", "update", "books", "--primary-key", "isbn")
	require.NoError(t, err)

	_, err = env.run(t, testMasterKey, "indexes", "update", "books", "--primary-key", "other")
	require.Error(t, err)
	assert.True(t, errors.Is(err, meili.ErrPrimaryKeyImmutable))

	_, err = env.run(t, testMasterKey, "indexes", "update", "books")
	assert.EqualError(t, err, "nothing to update: pass --primary-key or --name")

	_, err = env.run(t, testMasterKey, "indexes", "create", "movies")
	assert.True(t, errors.Is(err, meili.ErrAlreadyExists))

	out, err = env.run(t, testMasterKey, "indexes", "create", "movies", "--if-not-exists")
	require.NoError(t, err)
	assert.Contains(t, out, "Primary key: id")

	out, err = env.run(t, testMasterKey, "indexes", "stats", "movies")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents: 0")

	out, err = env.run(t, testMasterKey, "indexes", "delete", "movies")
	require.NoError(t, err)
	assert.Contains(t, out, "Index movies deleted")

	_, err = env.run(t, testMasterKey, "indexes", "show", "movies")
	assert.EqualError(t, err, "Index movies not found")
	assert.Contains(t, DescribeError(err), "meilictl indexes list")
}

func TestServerCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, testMasterKey, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "available")

	out, err = env.run(t, testMasterKey, "version")
	require.NoError(t, err)
	assert.Contains(t, out, meilitest.DefaultVersion.PkgVersion)
	assert.Regexp(t, `meilictl:\s+test`, out)

	out, err = env.run(t, testMasterKey, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Last update: never")

	out, err = env.run(t, testMasterKey, "sys-info")
	require.NoError(t, err)
	assert.Contains(t, out, "Memory usage:   unknown")

	out, err = env.run(t, testMasterKey, "sys-info", "--pretty", "--json")
	require.NoError(t, err)
	var pretty meili.SysInfoPretty
	require.NoError(t, json.Unmarshal([]byte(out), &pretty))
	assert.NotEmpty(t, pretty.Global.TotalMemory)

	out, err = env.run(t, testMasterKey, "keys", "--json")
	require.NoError(t, err)
	var keys meili.Keys
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, env.srv.Keys(), keys)
}

func TestPermissionErrors(t *testing.T) {
	env := newTestEnv(t)
	keys := env.srv.Keys()

	_, err := env.run(t, keys.Private, "stats")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid API key: "+keys.Private)

	_, err = env.run(t, "", "indexes", "list")
	require.Error(t, err)
	assert.EqualError(t, err, "Invalid API key: Need a token")

	described := DescribeError(err)
	assert.Contains(t, described, "GET /indexes -> 401 (missing_authorization_header)")
	assert.Contains(t, described, "MEILIKIT_SERVER_API_KEY")

	out, err := env.run(t, keys.Public, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "available")
}

func TestUnreachableServer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	rootCmd := NewRootCommand("test")
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--no-color", "--host", url, "health"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, meili.ErrCommunication))
	assert.Contains(t, DescribeError(err), "meilimock")
}

func TestConfigCommands(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "meilikit", "config.yaml")

	out, err := env.run(t, testMasterKey, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err = env.run(t, testMasterKey, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = env.run(t, testMasterKey, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "mast****")
	assert.NotContains(t, out, testMasterKey)

	out, err = env.run(t, testMasterKey, "config", "show", "--reveal", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"api_key": "masterKey"`)
}

func TestInvalidConfigFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  timeout_seconds: -1\n"), 0644))

	_, err := env.run(t, testMasterKey, "--config", path, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server timeout must be positive")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "abcd****", maskSecret("abcdefgh"))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHealthWatchKeepsFlagsOnReload(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.Server.Host = "http://127.0.0.1:1"
	cfg.Server.APIKey = "file-key"
	require.NoError(t, config.WriteConfig(&cfg, path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	rootCmd := NewRootCommand("test")
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs([]string{"--no-color", "--debug", "--config", path, "--host", env.url,
		"health", "--watch", "--interval", "20ms"})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "available")
	}, 5*time.Second, 10*time.Millisecond)

	cfg.Server.TimeoutSeconds = 5
	require.NoError(t, config.WriteConfig(&cfg, path))

	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), "Configuration reloaded")
	}, 5*time.Second, 10*time.Millisecond)

	mark := len(stdout.String())
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String()[mark:], env.url)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("health --watch did not stop")
	}

	assert.NotContains(t, stdout.String(), "127.0.0.1:1")
}
