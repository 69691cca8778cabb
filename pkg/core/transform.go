package core

import (
	"fmt"
	"path"
	"strings"

	"github.com/oneconcern/buildsync/pkg/model"
	"github.com/oneconcern/buildsync/pkg/storage"
)

const (
	// artifacts are immutable once published
	cacheControlArtifact = "max-age=31536000"

	// metadata and index objects may be revised without a new build id
	cacheControlMetadata = "max-age=60"

	jsonContentType = "application/json"

	gzipSuffix = ".gz"

	// disk images keep their compression at the consumer's request,
	// even when gzip peeling is enabled
	compressedImageSuffix = ".raw.gz"
)

// uploadPlan is the derived decision for one file: where it comes
// from, where it goes, and the transport metadata it carries. Plans
// only live for the duration of one run.
type uploadPlan struct {
	source   string
	key      string
	settings storage.PutSettings
	peeled   bool
}

// planArtifact decides how one first-class artifact uploads. When the
// gzip-peel transform applies, the remote key and the in-memory
// descriptor path drop the compression suffix and the upload carries
// the stored encoding plus a content-disposition hint naming the
// original compressed filename. The local file's bytes are never
// altered.
func (p *Publisher) planArtifact(buildID, arch string, desc *model.ArtifactDescriptor) uploadPlan {
	localName := desc.Path()
	remoteName := localName
	settings := storage.PutSettings{
		CacheControl: cacheControlArtifact,
		ACL:          p.acl,
	}
	peeled := false
	if p.peelGzip && strings.HasSuffix(localName, gzipSuffix) && !strings.HasSuffix(localName, compressedImageSuffix) {
		remoteName = strings.TrimSuffix(localName, gzipSuffix)
		settings.ContentEncoding = "gzip"
		settings.ContentDisposition = fmt.Sprintf("inline; filename=%s", localName)
		desc.SetPath(remoteName)
		peeled = true
	}
	settings.ContentType = contentTypeForKey(remoteName)
	return uploadPlan{
		source:   path.Join(buildID, arch, localName),
		key:      model.GetRemotePathToArtifact(p.prefix, buildID, arch, remoteName),
		settings: settings,
		peeled:   peeled,
	}
}

// planFile builds the verbatim plan for a file not enumerated in the
// metadata: same long-lived cache-control, no transform.
func (p *Publisher) planFile(buildID, arch, name string) uploadPlan {
	return uploadPlan{
		source: path.Join(buildID, arch, name),
		key:    model.GetRemotePathToArtifact(p.prefix, buildID, arch, name),
		settings: storage.PutSettings{
			ContentType:  contentTypeForKey(name),
			CacheControl: cacheControlArtifact,
			ACL:          p.acl,
		},
	}
}

// planSibling builds the plan for a build-level file not tied to one
// architecture.
func (p *Publisher) planSibling(buildID, name string) uploadPlan {
	return uploadPlan{
		source: path.Join(buildID, name),
		key:    model.GetRemotePathToSibling(p.prefix, buildID, name),
		settings: storage.PutSettings{
			ContentType:  contentTypeForKey(name),
			CacheControl: cacheControlArtifact,
			ACL:          p.acl,
		},
	}
}

func contentTypeForKey(key string) string {
	switch path.Ext(key) {
	case ".json":
		return jsonContentType
	case ".tar":
		return "application/x-tar"
	case ".xz":
		return "application/x-xz"
	case ".gz":
		return "application/gzip"
	case ".iso":
		return "application/x-iso9660-image"
	default:
		return "application/octet-stream"
	}
}
