// Command mongomanager is an interactive menu over users and posts stored in MongoDB.
package main

import (
	"os"

	"github.com/AI2HU/dbmanager/internal/cli"
)

func main() {
	if err := cli.NewMongoCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
