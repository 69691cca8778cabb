package model

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// artifactsKey is the metadata field enumerating first-class artifacts.
const artifactsKey = "images"

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ArtifactDescriptor describes one named artifact of a build. Beyond
// the path, descriptor fields are opaque to the pipeline and round-trip
// verbatim.
type ArtifactDescriptor struct {
	path      string
	raw       []byte
	rewritten bool
}

// Path yields the artifact path relative to the architecture build directory
func (d *ArtifactDescriptor) Path() string {
	return d.path
}

// SetPath rewrites the artifact path in memory. The descriptor's other
// fields are preserved as parsed.
func (d *ArtifactDescriptor) SetPath(path string) {
	d.path = path
	d.rewritten = true
}

func (d *ArtifactDescriptor) writeTo(stream *jsoniter.Stream) {
	if !d.rewritten {
		stream.WriteRaw(string(d.raw))
		return
	}
	// re-emit the original object field by field, swapping the path value
	iter := jsonAPI.BorrowIterator(d.raw)
	defer jsonAPI.ReturnIterator(iter)
	stream.WriteObjectStart()
	first := true
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		raw := it.SkipAndReturnBytes()
		if !first {
			stream.WriteMore()
		}
		first = false
		stream.WriteObjectField(field)
		if field == "path" {
			stream.WriteString(d.path)
		} else {
			stream.WriteRaw(string(raw))
		}
		return true
	})
	stream.WriteObjectEnd()
}

// BuildMeta is the in-memory form of one architecture's metadata
// record. Artifact enumeration order and all fields the pipeline does
// not interpret are preserved across a load/serialize round trip.
//
// The on-disk original is immutable input: mutations (path rewrite,
// scrubbing) only ever apply to this in-memory copy.
type BuildMeta struct {
	keys      []string
	fields    map[string][]byte
	names     []string
	artifacts map[string]*ArtifactDescriptor
}

// UnmarshalMeta parses a metadata record, preserving field order
func UnmarshalMeta(data []byte) (*BuildMeta, error) {
	m := &BuildMeta{
		fields:    map[string][]byte{},
		artifacts: map[string]*ArtifactDescriptor{},
	}
	iter := jsonAPI.BorrowIterator(data)
	defer jsonAPI.ReturnIterator(iter)
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		raw := it.SkipAndReturnBytes()
		m.keys = append(m.keys, field)
		if field != artifactsKey {
			m.fields[field] = raw
			return true
		}
		sub := jsonAPI.BorrowIterator(raw)
		defer jsonAPI.ReturnIterator(sub)
		sub.ReadObjectCB(func(s *jsoniter.Iterator, name string) bool {
			descRaw := s.SkipAndReturnBytes()
			desc, err := parseDescriptor(name, descRaw)
			if err != nil {
				s.ReportError("artifacts", err.Error())
				return false
			}
			m.names = append(m.names, name)
			m.artifacts[name] = desc
			return true
		})
		if sub.Error != nil {
			it.ReportError("artifacts", sub.Error.Error())
			return false
		}
		return true
	})
	if iter.Error != nil {
		return nil, fmt.Errorf("invalid metadata record: %v", iter.Error)
	}
	return m, nil
}

func parseDescriptor(name string, raw []byte) (*ArtifactDescriptor, error) {
	var probe struct {
		Path string `json:"path"`
	}
	if err := jsonAPI.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("artifact %q: %v", name, err)
	}
	if probe.Path == "" {
		return nil, fmt.Errorf("artifact %q: missing path", name)
	}
	return &ArtifactDescriptor{path: probe.Path, raw: raw}, nil
}

// ArtifactNames enumerates artifacts in the metadata's own order
func (m *BuildMeta) ArtifactNames() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Artifact yields the descriptor for a named artifact
func (m *BuildMeta) Artifact(name string) (*ArtifactDescriptor, bool) {
	d, ok := m.artifacts[name]
	return d, ok
}

// Scrub removes an artifact entry from the in-memory metadata
func (m *BuildMeta) Scrub(name string) {
	if _, ok := m.artifacts[name]; !ok {
		return
	}
	delete(m.artifacts, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// MarshalMeta serializes the in-memory metadata, preserving the
// original field and artifact order
func MarshalMeta(m *BuildMeta) ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)
	stream.WriteObjectStart()
	for i, key := range m.keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(key)
		if key != artifactsKey {
			stream.WriteRaw(string(m.fields[key]))
			continue
		}
		stream.WriteObjectStart()
		for j, name := range m.names {
			if j > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(name)
			m.artifacts[name].writeTo(stream)
		}
		stream.WriteObjectEnd()
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}
