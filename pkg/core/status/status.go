// Package status declares error constants returned by the publication
// pipeline in pkg/core.
package status

import "github.com/oneconcern/buildsync/pkg/errors"

var (
	// ErrBuildNotFound indicates that the requested build has no local record.
	// It aborts the run before any network activity.
	ErrBuildNotFound = errors.New("build not found locally")

	// ErrMissingArtifact indicates an artifact absent both locally and
	// remotely: a corrupted build/publish pairing that must be
	// investigated manually. It aborts the entire run.
	ErrMissingArtifact = errors.New("artifact absent both locally and remotely")

	// ErrConfigConflict indicates mutually exclusive options were both
	// set. It is raised before any work begins.
	ErrConfigConflict = errors.New("conflicting configuration options")
)
