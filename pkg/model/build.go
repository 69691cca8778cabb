package model

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// LatestBuild is the sentinel build identifier resolving to the most
// recently recorded build.
const LatestBuild = "latest"

// BuildRecord identifies one completed build and the architectures it
// was produced for. Records are owned by the build system and are
// read-only input to the publication pipeline.
type BuildRecord struct {
	ID     string   `json:"id"`
	Arches []string `json:"arches"`
}

// BuildsIndex is the list of all builds known locally, newest first.
// The pipeline republishes the full current list each run.
type BuildsIndex struct {
	SchemaVersion string        `json:"schema-version,omitempty"`
	Builds        []BuildRecord `json:"builds"`
	Timestamp     string        `json:"timestamp,omitempty"`
}

// Latest yields the most recent build record
func (ix *BuildsIndex) Latest() (BuildRecord, bool) {
	if len(ix.Builds) == 0 {
		return BuildRecord{}, false
	}
	return ix.Builds[0], true
}

// Find yields the build record for an id, resolving the latest-build sentinel
func (ix *BuildsIndex) Find(id string) (BuildRecord, bool) {
	if id == "" || id == LatestBuild {
		return ix.Latest()
	}
	for _, b := range ix.Builds {
		if b.ID == id {
			return b, true
		}
	}
	return BuildRecord{}, false
}

// UnmarshalIndex parses a builds index document
func UnmarshalIndex(data []byte) (*BuildsIndex, error) {
	var ix BuildsIndex
	if err := jsoniter.Unmarshal(data, &ix); err != nil {
		return nil, err
	}
	return &ix, nil
}

// MarshalIndex serializes a builds index document
func MarshalIndex(ix *BuildsIndex) ([]byte, error) {
	return jsoniter.Marshal(ix)
}

// SyncPointer records the remote location a build tree was last
// successfully published to. It is written only after the builds
// index upload has succeeded.
type SyncPointer struct {
	Bucket   string    `json:"bucket" yaml:"bucket"`
	Prefix   string    `json:"prefix" yaml:"prefix"`
	SyncedAt time.Time `json:"syncedAt" yaml:"syncedAt"`
}
