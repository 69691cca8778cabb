// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "buildsync",
	Short: "Buildsync publishes completed builds to an object store",
	Long: `Buildsync publishes the artifacts of completed multi-architecture builds
to an S3-compatible object store, so that consumers can re-fetch any subset
of artifacts without re-running the build.

Publication is idempotent: objects already present remotely are skipped, and
re-running the tool is the recovery mechanism after any interrupted run.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if buildsyncFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				log.Fatal(err)
			}
			_ = pprof.StartCPUProfile(f)
		}
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if buildsyncFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevelFlag(rootCmd)
	rootCmd.PersistentFlags().BoolVar(&buildsyncFlags.root.cpuProf, "cpuprof", false,
		"Toggle runtime profiling")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv("BUILDSYNC_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("BUILDSYNC_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.buildsync")
		viper.AddConfigPath("/etc/buildsync")
		viper.SetConfigName("buildsync")
	}

	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("populate config struct", err)
		return
	}
	config.setUploadParams(&buildsyncFlags)
}
