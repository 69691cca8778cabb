package cmd

import (
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

// syncStatusCmd reports the remote location last successfully synced to.
var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last successful publication target",
	Run: func(cmd *cobra.Command, args []string) {
		ptr, ok, err := paramsToBuildStore(buildsyncFlags).ReadSyncPointer()
		if err != nil {
			wrapFatalln("read sync pointer", err)
			return
		}
		if !ok {
			infoLogger.Println("this build tree has never been published")
			return
		}
		b, err := yaml.Marshal(ptr)
		if err != nil {
			wrapFatalln("serialize sync pointer", err)
			return
		}
		infoLogger.Print(string(b))
	},
}

func init() {
	addBuildsDirFlag(syncStatusCmd)
	rootCmd.AddCommand(syncStatusCmd)
}
