// Command sqlmanager is an interactive menu over users and posts stored in SQLite or PostgreSQL.
package main

import (
	"os"

	"github.com/AI2HU/dbmanager/internal/cli"
)

func main() {
	if err := cli.NewSQLCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
