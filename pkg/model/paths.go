package model

import (
	"strings"
)

const (
	// MetaFile is the per-architecture metadata record filename
	MetaFile = "meta.json"

	// IndexFile is the builds index filename
	IndexFile = "builds.json"

	// stateDir holds pipeline-written local state, next to the build tree
	stateDir = ".buildsync"
)

func join(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for _, e := range elem {
		e = strings.Trim(e, "/")
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}

// GetRemotePathToArtifact yields the object key for a published build file
func GetRemotePathToArtifact(prefix, buildID, arch, name string) string {
	return join(prefix, buildID, arch, name)
}

// GetRemotePathToMeta yields the object key for an architecture's metadata record
func GetRemotePathToMeta(prefix, buildID, arch string) string {
	return join(prefix, buildID, arch, MetaFile)
}

// GetRemotePathToSibling yields the object key for a build-level file
// not tied to one architecture
func GetRemotePathToSibling(prefix, buildID, name string) string {
	return join(prefix, buildID, name)
}

// GetRemotePathToIndex yields the object key for the builds index
func GetRemotePathToIndex(prefix string) string {
	return join(prefix, IndexFile)
}

// GetLocalPathToSyncPointer yields the location of the sync pointer,
// relative to the build tree root
func GetLocalPathToSyncPointer() string {
	return join(stateDir, "remote.yaml")
}

// GetLocalPathToLastSynced yields the location of the local duplicate
// of the last uploaded builds index, relative to the build tree root
func GetLocalPathToLastSynced() string {
	return join(stateDir, "builds-last-synced.json")
}
