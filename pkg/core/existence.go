package core

import (
	"context"

	"github.com/oneconcern/buildsync/pkg/errors"
	"github.com/oneconcern/buildsync/pkg/retry"
	"github.com/oneconcern/buildsync/pkg/storage/status"
	"go.uber.org/zap"
)

// remoteExists checks a key in the remote store through the retry
// policy. A not-found answer is a successful false. Credential
// failures degrade to false in a dry-run, so a simulation can proceed
// without stored credentials; outside dry-run they are fatal.
func (p *Publisher) remoteExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := retry.Do(ctx, "head "+key, func() error {
		var herr error
		exists, herr = p.remote.Has(ctx, key)
		return herr
	}, p.withRetryDefaults()...)
	if err != nil {
		if p.dryRun && (errors.Is(err, status.ErrUnauthorized) || errors.Is(err, status.ErrForbidden)) {
			p.l.Debug("existence check not authorized, assuming absent in dry-run",
				zap.String("key", key))
			return false, nil
		}
		return false, err
	}
	return exists, nil
}
