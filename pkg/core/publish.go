package core

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/oneconcern/buildsync/pkg/buildstore"
	"github.com/oneconcern/buildsync/pkg/core/status"
	"github.com/oneconcern/buildsync/pkg/errors"
	"github.com/oneconcern/buildsync/pkg/model"
	"github.com/oneconcern/buildsync/pkg/retry"
	"github.com/oneconcern/buildsync/pkg/storage"
	"go.uber.org/zap"
)

// outcome is the per-artifact result of the publication decision.
// Scrubbing is a third state, not a flavor of skipping: a skipped
// artifact keeps its metadata entry, a scrubbed one loses it.
type outcome int

const (
	outcomeUploaded outcome = iota
	outcomeSkippedPresent
	outcomeScrubbed
)

// Publisher drives one publication run: per selected architecture it
// uploads artifacts and rewritten metadata, then republishes the
// builds index and records the sync pointer.
//
// Processing is strictly sequential. Any step may be interrupted and
// the whole run re-executed: existence checks make reruns cheap and
// idempotent.
type Publisher struct {
	remote storage.Store
	builds *buildstore.Store
	l      *zap.Logger

	bucket    string
	prefix    string
	buildID   string
	arches    []string
	artifacts []string
	acl       string

	force     bool
	dryRun    bool
	skipIndex bool
	peelGzip  bool

	retryOpts []retry.Option
}

// NewPublisher builds a publisher with the given options
func NewPublisher(opts ...Option) *Publisher {
	p := &Publisher{
		buildID: model.LatestBuild,
		acl:     "private",
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}

func (p *Publisher) validate() error {
	if p.remote == nil {
		return errors.New("a remote store is required")
	}
	if p.builds == nil {
		return errors.New("a local build store is required")
	}
	if p.force && p.dryRun {
		return status.ErrConfigConflict.Wrap(
			fmt.Errorf("force and dry-run are mutually exclusive: a simulated run never re-uploads"))
	}
	return nil
}

// Publish runs the pipeline for the configured build
func (p *Publisher) Publish(ctx context.Context) error {
	if err := p.validate(); err != nil {
		return err
	}

	ix, err := p.builds.LoadIndex()
	if err != nil {
		return err
	}
	build, ok := ix.Find(p.buildID)
	if !ok {
		return status.ErrBuildNotFound.Wrap(fmt.Errorf("build %q has no local record", p.buildID))
	}
	p.l.Info("publishing build",
		zap.String("build", build.ID),
		zap.String("remote", p.remote.String()),
		zap.Bool("dry-run", p.dryRun),
	)

	for _, tgt := range p.selectTargets(build) {
		if err := p.publishArch(ctx, build.ID, tgt); err != nil {
			return err
		}
	}

	if err := p.publishSiblings(ctx, build.ID); err != nil {
		return err
	}

	return p.finalize(ctx)
}

// publishArch runs the per-architecture algorithm: plan, check, upload
// or scrub each artifact, sweep unlisted files, then upload the
// rewritten in-memory metadata.
func (p *Publisher) publishArch(ctx context.Context, buildID string, t target) error {
	meta, ok, err := p.builds.LoadMeta(buildID, t.arch)
	if err != nil {
		return err
	}
	if !ok {
		// supports partial multi-host builds: not every architecture's
		// output is present on this host
		p.l.Info("no local metadata for architecture, skipping",
			zap.String("arch", t.arch))
		return nil
	}

	handled := map[string]bool{}
	var scrubs []string
	uploaded := 0

	for _, name := range meta.ArtifactNames() {
		desc, _ := meta.Artifact(name)
		localName := desc.Path()
		plan := p.planArtifact(buildID, t.arch, desc)

		exists, err := p.remoteExists(ctx, plan.key)
		if err != nil {
			return err
		}

		if p.artifactExcluded(name) {
			handled[localName] = true
			if p.decideExcluded(name, exists) == outcomeScrubbed {
				scrubs = append(scrubs, name)
			}
			continue
		}

		hasLocal, err := p.builds.HasFile(plan.source)
		if err != nil {
			return err
		}
		if !hasLocal && !exists {
			return status.ErrMissingArtifact.Wrap(
				fmt.Errorf("artifact %q not in %s and no remote object %s", name, t.dir, plan.key))
		}
		handled[localName] = true

		if exists && !p.force {
			p.l.Info("artifact already published, skipping",
				zap.String("artifact", name),
				zap.String("key", plan.key))
			continue
		}
		if !hasLocal {
			// force was requested but there is nothing local to re-upload
			p.l.Warn("artifact only exists remotely, keeping remote copy",
				zap.String("artifact", name),
				zap.String("key", plan.key))
			continue
		}
		if err := p.upload(ctx, plan, name); err != nil {
			return err
		}
		uploaded++
	}

	// files in the build directory not enumerated as first-class
	// artifacts upload verbatim under their own name
	files, err := p.builds.ListFiles(buildID, t.arch)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f == model.MetaFile || handled[f] {
			continue
		}
		plan := p.planFile(buildID, t.arch, f)
		if err := p.syncFile(ctx, plan); err != nil {
			return err
		}
	}

	for _, name := range scrubs {
		meta.Scrub(name)
	}

	// the rewritten metadata is uploaded from memory, the on-disk
	// record stays untouched
	b, err := model.MarshalMeta(meta)
	if err != nil {
		return err
	}
	metaKey := model.GetRemotePathToMeta(p.prefix, buildID, t.arch)
	if uploaded == 0 && len(scrubs) == 0 && !p.force {
		metaExists, err := p.remoteExists(ctx, metaKey)
		if err != nil {
			return err
		}
		if metaExists {
			// nothing changed this run: the published record is current
			p.l.Info("metadata already published and unchanged, skipping",
				zap.String("key", metaKey))
			return nil
		}
	}
	p.l.Info("uploading metadata",
		zap.String("arch", t.arch),
		zap.String("key", metaKey),
		zap.Int("scrubbed", len(scrubs)),
		zap.Bool("dry-run", p.dryRun))
	if p.dryRun {
		return nil
	}
	return p.putBytes(ctx, metaKey, b, storage.PutSettings{
		ContentType:  jsonContentType,
		CacheControl: cacheControlMetadata,
		ACL:          p.acl,
	})
}

// decideExcluded reconciles a filtered-out artifact with remote state:
// already-published artifacts keep their metadata entry, the others are
// scrubbed so the uploaded metadata never references an object that was
// not written.
func (p *Publisher) decideExcluded(name string, exists bool) outcome {
	if exists {
		p.l.Info("excluded artifact already published, keeping metadata entry",
			zap.String("artifact", name))
		return outcomeSkippedPresent
	}
	p.l.Info("scrubbing excluded artifact from metadata",
		zap.String("artifact", name))
	return outcomeScrubbed
}

func (p *Publisher) artifactExcluded(name string) bool {
	if len(p.artifacts) == 0 {
		return false
	}
	for _, a := range p.artifacts {
		if a == name {
			return false
		}
	}
	return true
}

// syncFile uploads a local file verbatim unless its key already exists
func (p *Publisher) syncFile(ctx context.Context, plan uploadPlan) error {
	exists, err := p.remoteExists(ctx, plan.key)
	if err != nil {
		return err
	}
	if exists && !p.force {
		p.l.Info("file already published, skipping", zap.String("key", plan.key))
		return nil
	}
	return p.upload(ctx, plan, "")
}

// upload narrates then performs one object upload through the retry policy
func (p *Publisher) upload(ctx context.Context, plan uploadPlan, artifact string) error {
	var size int64
	if s, err := p.builds.Size(plan.source); err == nil {
		size = s
	}
	fields := []zap.Field{
		zap.String("key", plan.key),
		zap.String("size", units.HumanSize(float64(size))),
		zap.Bool("dry-run", p.dryRun),
	}
	if artifact != "" {
		fields = append(fields, zap.String("artifact", artifact))
	}
	if plan.peeled {
		fields = append(fields, zap.Bool("gzip-peel", true))
	}
	p.l.Info("uploading", fields...)
	if p.dryRun {
		return nil
	}

	return retry.Do(ctx, "put "+plan.key, func() error {
		rdr, err := p.builds.Open(plan.source)
		if err != nil {
			return err
		}
		defer rdr.Close()
		return p.remote.Put(ctx, plan.key, rdr, plan.settings)
	}, p.uploadRetryOptions()...)
}

func (p *Publisher) putBytes(ctx context.Context, key string, b []byte, settings storage.PutSettings) error {
	return retry.Do(ctx, "put "+key, func() error {
		return p.remote.Put(ctx, key, bytes.NewReader(b), settings)
	}, p.withRetryDefaults()...)
}

// uploadRetryOptions classifies local filesystem failures as terminal:
// retrying a read that cannot even open its source is pointless.
func (p *Publisher) uploadRetryOptions() []retry.Option {
	return append(p.withRetryDefaults(),
		retry.Classifier(func(err error) bool {
			var perr *os.PathError
			if errors.As(err, &perr) {
				return false
			}
			return retry.Transient(err)
		}),
	)
}

func (p *Publisher) withRetryDefaults() []retry.Option {
	return append([]retry.Option{retry.Logger(p.l)}, p.retryOpts...)
}
