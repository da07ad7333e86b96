package json

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/old-runners/pkg/config/source"
)

func TestReplaceEnvVars(t *testing.T) {
	t.Setenv("CFG_TEST_SET", "42")
	t.Setenv("CFG_TEST_EMPTY", "")

	out, err := ReplaceEnvVars([]byte("a: ${CFG_TEST_SET}\nb: ${CFG_TEST_UNSET:7}\nc: ${CFG_TEST_EMPTY:x}\nd: ${CFG_TEST_UNSET}\ne: ${CFG_TEST_UNSET_ADDR::80}"))
	require.NoError(t, err)
	assert.Equal(t, "a: 42\nb: 7\nc: x\nd: \ne: :80", string(out))
}

func TestReader_MergeFormats(t *testing.T) {
	t.Setenv("CFG_TEST_TTL", "45")
	r := NewReader()

	yamlSet := &source.ChangeSet{Format: "yaml", Data: []byte("radar:\n  ttl: ${CFG_TEST_TTL:30}\n  networks: solana\n")}
	tomlSet := &source.ChangeSet{Format: "toml", Data: []byte("[server]\naddr = \":9000\"\n")}

	merged, err := r.Merge(yamlSet, tomlSet)
	require.NoError(t, err)

	vals, err := r.Values(merged)
	require.NoError(t, err)
	assert.Equal(t, 45, vals.Get("radar", "ttl").Int(0))
	assert.Equal(t, "solana", vals.Get("radar", "networks").String(""))
	assert.Equal(t, ":9000", vals.Get("server", "addr").String(""))
	assert.Equal(t, "fallback", vals.Get("radar", "missing").String("fallback"))
}

func TestValues_Coercion(t *testing.T) {
	vals, err := NewReader().Values(&source.ChangeSet{Format: "json", Data: []byte(
		`{"ttl":"30","debug":"true","ratio":"0.5","timeout":"2s","nets":"solana, base,","list":["a","b"]}`)})
	require.NoError(t, err)

	assert.Equal(t, 30, vals.Get("ttl").Int(0))
	assert.True(t, vals.Get("debug").Bool(false))
	assert.InDelta(t, 0.5, vals.Get("ratio").Float64(0), 1e-9)
	assert.Equal(t, 2*time.Second, vals.Get("timeout").Duration(0))
	assert.Equal(t, []string{"solana", "base"}, vals.Get("nets").StringSlice(nil))
	assert.Equal(t, []string{"a", "b"}, vals.Get("list").StringSlice(nil))
	assert.Equal(t, 7, vals.Get("missing").Int(7))

	_, err = NewReader().Values(&source.ChangeSet{Format: "yaml", Data: []byte("a: 1")})
	assert.Error(t, err)
}
