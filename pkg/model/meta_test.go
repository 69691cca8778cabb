package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metaFixture = `{
	"name": "fedora-coreos",
	"ostree-version": "39.1.2",
	"images": {
		"metal": {"path": "disk-metal.raw.gz", "sha256": "aaa", "size": 10},
		"live-kernel": {"path": "image.vmlinuz.gz", "sha256": "bbb"},
		"qemu": {"path": "disk-qemu.qcow2", "sha256": "ccc"}
	},
	"build-url": "https://ci.example.com/run/42"
}`

func TestUnmarshalMetaOrder(t *testing.T) {
	m, err := UnmarshalMeta([]byte(metaFixture))
	require.NoError(t, err)

	assert.Equal(t, []string{"metal", "live-kernel", "qemu"}, m.ArtifactNames())

	d, ok := m.Artifact("live-kernel")
	require.True(t, ok)
	assert.Equal(t, "image.vmlinuz.gz", d.Path())

	_, ok = m.Artifact("unknown")
	assert.False(t, ok)
}

func TestMetaRoundTrip(t *testing.T) {
	m, err := UnmarshalMeta([]byte(metaFixture))
	require.NoError(t, err)

	out, err := MarshalMeta(m)
	require.NoError(t, err)

	// unknown fields, top-level and per artifact, survive untouched
	assert.JSONEq(t, metaFixture, string(out))

	// field order is stable, not alphabetized
	s := string(out)
	assert.Less(t, indexOf(t, s, `"name"`), indexOf(t, s, `"images"`))
	assert.Less(t, indexOf(t, s, `"images"`), indexOf(t, s, `"build-url"`))
	assert.Less(t, indexOf(t, s, `"metal"`), indexOf(t, s, `"live-kernel"`))
	assert.Less(t, indexOf(t, s, `"live-kernel"`), indexOf(t, s, `"qemu"`))
}

func TestMetaSetPath(t *testing.T) {
	m, err := UnmarshalMeta([]byte(metaFixture))
	require.NoError(t, err)

	d, ok := m.Artifact("live-kernel")
	require.True(t, ok)
	d.SetPath("image.vmlinuz")

	out, err := MarshalMeta(m)
	require.NoError(t, err)

	rt, err := UnmarshalMeta(out)
	require.NoError(t, err)
	d2, ok := rt.Artifact("live-kernel")
	require.True(t, ok)
	assert.Equal(t, "image.vmlinuz", d2.Path())

	// sibling descriptor fields are preserved through the rewrite
	assert.Contains(t, string(out), `"bbb"`)
	assert.NotContains(t, string(out), "image.vmlinuz.gz")
}

func TestMetaScrub(t *testing.T) {
	m, err := UnmarshalMeta([]byte(metaFixture))
	require.NoError(t, err)

	m.Scrub("live-kernel")
	m.Scrub("no-such-artifact")
	assert.Equal(t, []string{"metal", "qemu"}, m.ArtifactNames())

	out, err := MarshalMeta(m)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "live-kernel")
	assert.Contains(t, string(out), `"metal"`)
}

func TestUnmarshalMetaErrors(t *testing.T) {
	_, err := UnmarshalMeta([]byte(`{"images": {"metal": {"size": 1}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing path")

	_, err = UnmarshalMeta([]byte(`{"images": `))
	require.Error(t, err)
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "expected %q in output", sub)
	return i
}
