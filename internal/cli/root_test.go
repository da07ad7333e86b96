package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/old-runners/internal/api"
	"github.com/ninja0404/old-runners/internal/model"
)

type fakeApp struct {
	filter      model.FilterConfig
	shutdownErr error
	shutdowns   int
}

func (f *fakeApp) Scan(_ context.Context, _ []string, filter model.FilterConfig) *api.Response {
	f.filter = filter
	return &api.Response{}
}

func (f *fakeApp) Shutdown() error {
	f.shutdowns++
	return f.shutdownErr
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OLD_RUNNERS_TEST_VAR=from-file\n"), 0o600))

	t.Setenv("OLD_RUNNERS_TEST_VAR", "")
	os.Unsetenv("OLD_RUNNERS_TEST_VAR")
	require.NoError(t, loadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("OLD_RUNNERS_TEST_VAR"))

	assert.NoError(t, loadEnv(filepath.Join(dir, "missing.env")))
	assert.NoError(t, loadEnv(""))
}

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "scan", "config"})
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestScanOptions_Query(t *testing.T) {
	o := &scanOptions{thresholds: map[string]string{"minLP": "10000"}}
	assert.Equal(t, "10000", o.query().Get("minLP"))
}

func TestConfigCmd_PrintsRedactedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"radar:\n  ttl: 45\n  networks: solana,base\ncache:\n  kind: none\n  password: secret\n"), 0o600))

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--config", path, "--env-file", ""})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "ttl: 45")
	assert.Contains(t, out.String(), "networks: solana,base")
	assert.Contains(t, out.String(), "******")
	assert.NotContains(t, out.String(), "secret")
}

func TestScanOptions_RunReportsShutdownError(t *testing.T) {
	var out bytes.Buffer
	a := &fakeApp{shutdownErr: errors.New("close cache: broken pipe")}
	o := &scanOptions{thresholds: map[string]string{"minLP": "12345"}}

	err := o.run(context.Background(), &out, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Equal(t, 1, a.shutdowns)
	assert.Equal(t, 12345.0, a.filter.MinLP)
	assert.NotEmpty(t, out.String())

	a.shutdownErr = nil
	out.Reset()
	require.NoError(t, o.run(context.Background(), &out, a))
	assert.Equal(t, 2, a.shutdowns)
}
