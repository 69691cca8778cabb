package core

import (
	"github.com/oneconcern/buildsync/pkg/buildstore"
	"github.com/oneconcern/buildsync/pkg/retry"
	"github.com/oneconcern/buildsync/pkg/storage"
	"go.uber.org/zap"
)

// Option is a functor to build a publisher with some options
type Option func(*Publisher)

// Remote defines the object store publications go to
func Remote(store storage.Store) Option {
	return func(p *Publisher) {
		p.remote = store
	}
}

// Builds defines the local build store publications come from
func Builds(store *buildstore.Store) Option {
	return func(p *Publisher) {
		p.builds = store
	}
}

// Bucket records the remote bucket name for the sync pointer
func Bucket(bucket string) Option {
	return func(p *Publisher) {
		p.bucket = bucket
	}
}

// Prefix defines the key prefix all uploads go under
func Prefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// Build selects the build to publish. Defaults to the most recent one.
func Build(id string) Option {
	return func(p *Publisher) {
		if id != "" {
			p.buildID = id
		}
	}
}

// Arches restricts the run to an allowlist of architectures
func Arches(arches []string) Option {
	return func(p *Publisher) {
		p.arches = arches
	}
}

// Artifacts restricts uploads to an allowlist of artifact names.
// Excluded artifacts without a remote counterpart are scrubbed from
// the uploaded metadata.
func Artifacts(names []string) Option {
	return func(p *Publisher) {
		p.artifacts = names
	}
}

// ACL defines the access control list value for uploaded objects
func ACL(acl string) Option {
	return func(p *Publisher) {
		if acl != "" {
			p.acl = acl
		}
	}
}

// Force re-uploads artifacts even when their remote object exists
func Force(force bool) Option {
	return func(p *Publisher) {
		p.force = force
	}
}

// DryRun simulates the run without any network-mutating call
func DryRun(dryRun bool) Option {
	return func(p *Publisher) {
		p.dryRun = dryRun
	}
}

// SkipIndex opts out of builds index publication. Per-architecture
// uploads still occur.
func SkipIndex(skip bool) Option {
	return func(p *Publisher) {
		p.skipIndex = skip
	}
}

// PeelGzip enables the gzip-peel transform on eligible artifacts
func PeelGzip(enable bool) Option {
	return func(p *Publisher) {
		p.peelGzip = enable
	}
}

// Logger defines the logger upload decisions are narrated to
func Logger(l *zap.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.l = l
		}
	}
}

// WithRetryOptions tunes the retry policy applied to remote calls
func WithRetryOptions(opts ...retry.Option) Option {
	return func(p *Publisher) {
		p.retryOpts = append(p.retryOpts, opts...)
	}
}
