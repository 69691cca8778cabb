package cmd

import (
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/oneconcern/buildsync/pkg/buildstore"
	"github.com/oneconcern/buildsync/pkg/dlogger"
	"github.com/oneconcern/buildsync/pkg/model"
	"github.com/oneconcern/buildsync/pkg/storage"
	"github.com/oneconcern/buildsync/pkg/storage/sthree"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type flagsT struct {
	upload struct {
		Build     string
		Arches    []string
		Artifacts []string
		Force     bool
		DryRun    bool
		SkipIndex bool
		ACL       string
		PeelGzip  bool
	}
	remote struct {
		Bucket   string
		Prefix   string
		Endpoint string
		Region   string
	}
	local struct {
		BuildsDir string
	}
	root struct {
		logLevel string
		cpuProf  bool
	}
}

var buildsyncFlags = flagsT{}

func addBuildFlag(cmd *cobra.Command) string {
	b := "build"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.upload.Build, b, model.LatestBuild,
			"The build to publish, if not specified the latest build will be used")
	}
	return b
}

func addArchFlag(cmd *cobra.Command) string {
	arch := "arch"
	if cmd != nil {
		cmd.Flags().StringSliceVar(&buildsyncFlags.upload.Arches, arch, nil,
			"Only publish these architectures (repeatable)")
	}
	return arch
}

func addArtifactFlag(cmd *cobra.Command) string {
	artifact := "artifact"
	if cmd != nil {
		cmd.Flags().StringSliceVar(&buildsyncFlags.upload.Artifacts, artifact, nil,
			"Only publish these artifacts (repeatable); excluded artifacts without a remote copy are scrubbed from the published metadata")
	}
	return artifact
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	if cmd != nil {
		cmd.Flags().BoolVar(&buildsyncFlags.upload.Force, force, false,
			"Re-upload objects even when they already exist remotely")
	}
	return force
}

func addDryRunFlag(cmd *cobra.Command) string {
	dryRun := "dry-run"
	if cmd != nil {
		cmd.Flags().BoolVar(&buildsyncFlags.upload.DryRun, dryRun, false,
			"Narrate every decision without any network-mutating call")
	}
	return dryRun
}

func addSkipIndexFlag(cmd *cobra.Command) string {
	skipIndex := "skip-builds-json"
	if cmd != nil {
		cmd.Flags().BoolVar(&buildsyncFlags.upload.SkipIndex, skipIndex, false,
			"Do not publish the builds index")
	}
	return skipIndex
}

func addACLFlag(cmd *cobra.Command) string {
	acl := "acl"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.upload.ACL, acl, "",
			"Canned ACL applied to uploaded objects (defaults to private)")
	}
	return acl
}

func addPeelGzipFlag(cmd *cobra.Command) string {
	peel := "gzip-peel"
	if cmd != nil {
		cmd.Flags().BoolVar(&buildsyncFlags.upload.PeelGzip, peel, false,
			"Store eligible compressed artifacts uncompressed-on-the-fly-retrievable")
	}
	return peel
}

func addBucketFlag(cmd *cobra.Command) string {
	bucket := "bucket"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.remote.Bucket, bucket, "",
			"Destination bucket")
	}
	return bucket
}

func addPrefixFlag(cmd *cobra.Command) string {
	prefix := "prefix"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.remote.Prefix, prefix, "",
			"Key prefix all uploads go under")
	}
	return prefix
}

func addEndpointFlag(cmd *cobra.Command) string {
	endpoint := "endpoint"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.remote.Endpoint, endpoint, "",
			"Alternate S3-compatible endpoint URL")
	}
	return endpoint
}

func addRegionFlag(cmd *cobra.Command) string {
	region := "region"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.remote.Region, region, "",
			"Region of the destination bucket")
	}
	return region
}

func addBuildsDirFlag(cmd *cobra.Command) string {
	buildsDir := "builds-dir"
	if cmd != nil {
		cmd.Flags().StringVar(&buildsyncFlags.local.BuildsDir, buildsDir, "",
			"Local directory holding the builds index and build output (defaults to ./builds)")
	}
	return buildsDir
}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	if cmd != nil {
		cmd.PersistentFlags().StringVar(&buildsyncFlags.root.logLevel, logLevel, dlogger.LogLevelInfo,
			"The logging level: "+dlogger.LogLevelInfo+", "+dlogger.LogLevelDebug+" or "+dlogger.LogLevelNone)
	}
	return logLevel
}

func paramsToRemoteStore(flags flagsT) storage.Store {
	opts := []sthree.Option{
		sthree.Bucket(flags.remote.Bucket),
	}
	cfg := aws.NewConfig()
	if flags.remote.Region != "" {
		cfg = cfg.WithRegion(flags.remote.Region)
	}
	opts = append(opts, sthree.AWSConfig(cfg))
	if flags.remote.Endpoint != "" {
		opts = append(opts, sthree.Endpoint(flags.remote.Endpoint))
	}
	return sthree.New(opts[0], opts[1:]...)
}

func paramsToBuildStore(flags flagsT) *buildstore.Store {
	dir := flags.local.BuildsDir
	if dir == "" {
		dir = "builds"
	}
	return buildstore.New(afero.NewBasePathFs(afero.NewOsFs(), filepath.Clean(dir)))
}
