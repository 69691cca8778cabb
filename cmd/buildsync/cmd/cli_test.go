package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadRequiresBucket(t *testing.T) {
	savedExit := osExit
	defer func() {
		osExit = savedExit
		buildsyncFlags = flagsT{}
		rootCmd.SetArgs(nil)
	}()
	var code int
	exited := false
	osExit = func(c int) {
		code = c
		exited = true
	}

	rootCmd.SetArgs([]string{"upload", "--dry-run"})
	err := rootCmd.Execute()
	require.NoError(t, err)
	require.True(t, exited)
	assert.Equal(t, 2, code)
}

func TestConfigFallback(t *testing.T) {
	c := &CLIConfig{
		Bucket:    "cfg-bucket",
		Prefix:    "cfg-prefix",
		Endpoint:  "http://minio.local:9000",
		Region:    "us-west-2",
		ACL:       "public-read",
		BuildsDir: "/srv/builds",
	}

	flags := flagsT{}
	c.setUploadParams(&flags)
	assert.Equal(t, "cfg-bucket", flags.remote.Bucket)
	assert.Equal(t, "cfg-prefix", flags.remote.Prefix)
	assert.Equal(t, "http://minio.local:9000", flags.remote.Endpoint)
	assert.Equal(t, "us-west-2", flags.remote.Region)
	assert.Equal(t, "public-read", flags.upload.ACL)
	assert.Equal(t, "/srv/builds", flags.local.BuildsDir)

	// explicit flags win over the config file
	flags = flagsT{}
	flags.remote.Bucket = "flag-bucket"
	flags.upload.ACL = "private"
	c.setUploadParams(&flags)
	assert.Equal(t, "flag-bucket", flags.remote.Bucket)
	assert.Equal(t, "private", flags.upload.ACL)
}
