// Package buildstore reads the local tree of completed builds and
// records pipeline state (sync pointer, last synced index copy).
//
// The build tree itself is read-only input owned by the build system:
//
//	<root>/builds.json
//	<root>/<buildID>/<sibling files>
//	<root>/<buildID>/<arch>/meta.json
//	<root>/<buildID>/<arch>/<artifact files>
package buildstore

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"time"

	"github.com/oneconcern/buildsync/pkg/model"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// Store gives access to a local build tree
type Store struct {
	fs afero.Fs
}

// New creates a build store rooted at the given filesystem.
// A nil filesystem defaults to ./builds on the OS filesystem.
func New(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), "builds")
	}
	return &Store{fs: fs}
}

// IndexBytes yields the raw bytes of the local builds index
func (s *Store) IndexBytes() ([]byte, error) {
	b, err := afero.ReadFile(s.fs, model.IndexFile)
	if err != nil {
		return nil, fmt.Errorf("reading local builds index: %w", err)
	}
	return b, nil
}

// LoadIndex parses the local builds index
func (s *Store) LoadIndex() (*model.BuildsIndex, error) {
	b, err := s.IndexBytes()
	if err != nil {
		return nil, err
	}
	ix, err := model.UnmarshalIndex(b)
	if err != nil {
		return nil, fmt.Errorf("parsing local builds index: %w", err)
	}
	return ix, nil
}

// DirFor yields the architecture build directory, relative to the tree root
func (s *Store) DirFor(buildID, arch string) string {
	return path.Join(buildID, arch)
}

// HasDir tells whether the architecture's build output is present locally
func (s *Store) HasDir(buildID, arch string) (bool, error) {
	fi, err := s.fs.Stat(s.DirFor(buildID, arch))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fi.IsDir(), nil
}

// LoadMeta parses the metadata record for one architecture. A missing
// record is not an error: the second return value reports presence.
func (s *Store) LoadMeta(buildID, arch string) (*model.BuildMeta, bool, error) {
	p := path.Join(s.DirFor(buildID, arch), model.MetaFile)
	b, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", p, err)
	}
	m, err := model.UnmarshalMeta(b)
	if err != nil {
		return nil, true, fmt.Errorf("parsing %s: %w", p, err)
	}
	return m, true, nil
}

// HasFile tells whether a file exists under the tree root
func (s *Store) HasFile(rel string) (bool, error) {
	fi, err := s.fs.Stat(rel)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

// Open opens a file under the tree root for reading
func (s *Store) Open(rel string) (io.ReadCloser, error) {
	return s.fs.Open(rel)
}

// Size yields the size in bytes of a file under the tree root
func (s *Store) Size(rel string) (int64, error) {
	fi, err := s.fs.Stat(rel)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// ListFiles enumerates the plain files in one architecture's build
// directory, sorted by name. The walk is not recursive: artifacts live
// flat in the architecture directory.
func (s *Store) ListFiles(buildID, arch string) ([]string, error) {
	return s.listDir(s.DirFor(buildID, arch))
}

// SiblingFiles enumerates the plain files directly under the build
// directory root, e.g. release-wide metadata not tied to one
// architecture.
func (s *Store) SiblingFiles(buildID string) ([]string, error) {
	return s.listDir(buildID)
}

func (s *Store) listDir(dir string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var names []string
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		names = append(names, fi.Name())
	}
	sort.Strings(names)
	return names, nil
}

// WriteSyncPointer durably records the remote location just published to
func (s *Store) WriteSyncPointer(bucket, prefix string) error {
	ptr := model.SyncPointer{
		Bucket:   bucket,
		Prefix:   prefix,
		SyncedAt: time.Now().UTC(),
	}
	b, err := yaml.Marshal(ptr)
	if err != nil {
		return err
	}
	return s.writeState(model.GetLocalPathToSyncPointer(), b)
}

// ReadSyncPointer loads the last recorded sync pointer, if any
func (s *Store) ReadSyncPointer() (model.SyncPointer, bool, error) {
	var ptr model.SyncPointer
	b, err := afero.ReadFile(s.fs, model.GetLocalPathToSyncPointer())
	if err != nil {
		if os.IsNotExist(err) {
			return ptr, false, nil
		}
		return ptr, false, err
	}
	if err := yaml.Unmarshal(b, &ptr); err != nil {
		return ptr, false, err
	}
	return ptr, true, nil
}

// WriteLastSynced duplicates the uploaded builds index locally for
// future diffing
func (s *Store) WriteLastSynced(index []byte) error {
	return s.writeState(model.GetLocalPathToLastSynced(), index)
}

func (s *Store) writeState(rel string, b []byte) error {
	if err := s.fs.MkdirAll(path.Dir(rel), 0700); err != nil {
		return fmt.Errorf("ensuring state directory: %w", err)
	}
	f, err := s.fs.OpenFile(rel, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_SYNC, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	if _, err := io.Copy(f, bytes.NewReader(b)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return f.Close()
}
