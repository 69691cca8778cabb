package cmd

import (
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Bucket    string `json:"bucket" yaml:"bucket"`       // Destination bucket
	Prefix    string `json:"prefix" yaml:"prefix"`       // Key prefix for uploads
	Endpoint  string `json:"endpoint" yaml:"endpoint"`   // Alternate S3-compatible endpoint
	Region    string `json:"region" yaml:"region"`       // Bucket region
	ACL       string `json:"acl" yaml:"acl"`             // Canned ACL for uploaded objects
	BuildsDir string `json:"buildsdir" yaml:"buildsdir"` // Local build tree root
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setUploadParams fills flags left unset from the configuration file
func (c *CLIConfig) setUploadParams(flags *flagsT) {
	if flags.remote.Bucket == "" {
		flags.remote.Bucket = c.Bucket
	}
	if flags.remote.Prefix == "" {
		flags.remote.Prefix = c.Prefix
	}
	if flags.remote.Endpoint == "" {
		flags.remote.Endpoint = c.Endpoint
	}
	if flags.remote.Region == "" {
		flags.remote.Region = c.Region
	}
	if flags.upload.ACL == "" && c.ACL != "" {
		flags.upload.ACL = c.ACL
	}
	if flags.local.BuildsDir == "" {
		flags.local.BuildsDir = c.BuildsDir
	}
}
