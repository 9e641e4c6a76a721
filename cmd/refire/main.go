// refire watches a directory tree and reruns a command when files change.
package main

import (
	"os"

	"github.com/refire-dev/refire/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
