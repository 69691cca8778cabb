package cmd

import (
	"context"

	"github.com/oneconcern/buildsync/pkg/core"
	"github.com/oneconcern/buildsync/pkg/dlogger"
	"github.com/spf13/cobra"
)

// uploadCmd publishes one build to the remote store.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Publish a build to the object store",
	Long: `Publish the artifacts, metadata and builds index of one completed build.

The operation is idempotent: objects already present remotely are skipped
unless --force is given. With --dry-run every decision is narrated but no
object is written and the local sync pointer is left untouched; a dry run
does not require stored credentials.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if buildsyncFlags.remote.Bucket == "" {
			wrapFatalWithCodef(2, "a destination bucket is required (--bucket or config file)")
			return
		}
		logger, err := dlogger.GetLogger(buildsyncFlags.root.logLevel)
		if err != nil {
			wrapFatalln("failed to set log level", err)
			return
		}
		publisher := core.NewPublisher(
			core.Remote(paramsToRemoteStore(buildsyncFlags)),
			core.Builds(paramsToBuildStore(buildsyncFlags)),
			core.Bucket(buildsyncFlags.remote.Bucket),
			core.Prefix(buildsyncFlags.remote.Prefix),
			core.Build(buildsyncFlags.upload.Build),
			core.Arches(buildsyncFlags.upload.Arches),
			core.Artifacts(buildsyncFlags.upload.Artifacts),
			core.ACL(buildsyncFlags.upload.ACL),
			core.Force(buildsyncFlags.upload.Force),
			core.DryRun(buildsyncFlags.upload.DryRun),
			core.SkipIndex(buildsyncFlags.upload.SkipIndex),
			core.PeelGzip(buildsyncFlags.upload.PeelGzip),
			core.Logger(logger),
		)
		if err := publisher.Publish(ctx); err != nil {
			wrapFatalln("publish build", err)
			return
		}
		infoLogger.Printf("published build %q to bucket %q", buildsyncFlags.upload.Build, buildsyncFlags.remote.Bucket)
	},
}

func init() {
	addBuildFlag(uploadCmd)
	addArchFlag(uploadCmd)
	addArtifactFlag(uploadCmd)
	addForceFlag(uploadCmd)
	addDryRunFlag(uploadCmd)
	addSkipIndexFlag(uploadCmd)
	addACLFlag(uploadCmd)
	addPeelGzipFlag(uploadCmd)
	addBucketFlag(uploadCmd)
	addPrefixFlag(uploadCmd)
	addEndpointFlag(uploadCmd)
	addRegionFlag(uploadCmd)
	addBuildsDirFlag(uploadCmd)

	rootCmd.AddCommand(uploadCmd)
}
