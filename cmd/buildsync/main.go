// Copyright © 2018 One Concern

package main

import "github.com/oneconcern/buildsync/cmd/buildsync/cmd"

func main() {
	cmd.Execute()
}
