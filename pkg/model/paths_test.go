package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemotePaths(t *testing.T) {
	assert.Equal(t, "prod/36.1/x86_64/disk.qcow2",
		GetRemotePathToArtifact("prod", "36.1", "x86_64", "disk.qcow2"))
	assert.Equal(t, "36.1/x86_64/disk.qcow2",
		GetRemotePathToArtifact("", "36.1", "x86_64", "disk.qcow2"))
	assert.Equal(t, "prod/36.1/x86_64/meta.json",
		GetRemotePathToMeta("prod/", "36.1", "x86_64"))
	assert.Equal(t, "prod/36.1/release.json",
		GetRemotePathToSibling("/prod", "36.1", "release.json"))
	assert.Equal(t, "prod/builds.json", GetRemotePathToIndex("prod"))
	assert.Equal(t, "builds.json", GetRemotePathToIndex(""))
}

func TestIndexFind(t *testing.T) {
	ix := &BuildsIndex{
		Builds: []BuildRecord{
			{ID: "37.2", Arches: []string{"x86_64", "aarch64"}},
			{ID: "36.1", Arches: []string{"x86_64"}},
		},
	}

	b, ok := ix.Find("latest")
	assert.True(t, ok)
	assert.Equal(t, "37.2", b.ID)

	b, ok = ix.Find("36.1")
	assert.True(t, ok)
	assert.Equal(t, "36.1", b.ID)

	_, ok = ix.Find("35.0")
	assert.False(t, ok)

	empty := &BuildsIndex{}
	_, ok = empty.Find(LatestBuild)
	assert.False(t, ok)
}
