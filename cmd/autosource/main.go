// Command autosource generates synthetic event streams from story files.
package main

import (
	"fmt"
	"os"

	"github.com/pulseops/Autosource/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "autosource:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
