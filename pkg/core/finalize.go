package core

import (
	"context"

	"github.com/oneconcern/buildsync/pkg/model"
	"github.com/oneconcern/buildsync/pkg/storage"
	"go.uber.org/zap"
)

// publishSiblings uploads the build-level files not tied to one
// architecture, e.g. release-wide metadata. They follow the same
// existence-checked idempotence as artifacts.
func (p *Publisher) publishSiblings(ctx context.Context, buildID string) error {
	files, err := p.builds.SiblingFiles(buildID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := p.syncFile(ctx, p.planSibling(buildID, f)); err != nil {
			return err
		}
	}
	return nil
}

// finalize republishes the builds index and, strictly after the index
// upload succeeded, records the sync pointer and duplicates the index
// bytes locally. Nothing here runs in a dry-run, and the whole step is
// skipped when the user opted out of index publication.
func (p *Publisher) finalize(ctx context.Context) error {
	if p.skipIndex {
		p.l.Info("builds index publication disabled, skipping")
		return nil
	}

	b, err := p.builds.IndexBytes()
	if err != nil {
		return err
	}
	key := model.GetRemotePathToIndex(p.prefix)
	p.l.Info("uploading builds index",
		zap.String("key", key),
		zap.Bool("dry-run", p.dryRun))
	if p.dryRun {
		return nil
	}

	err = p.putBytes(ctx, key, b, storage.PutSettings{
		ContentType:  jsonContentType,
		CacheControl: cacheControlMetadata,
		ACL:          p.acl,
	})
	if err != nil {
		return err
	}

	if err := p.builds.WriteSyncPointer(p.bucket, p.prefix); err != nil {
		return err
	}
	if err := p.builds.WriteLastSynced(b); err != nil {
		return err
	}
	p.l.Info("recorded sync pointer",
		zap.String("bucket", p.bucket),
		zap.String("prefix", p.prefix))
	return nil
}
