// studio serves transcript transformations over HTTP and offers a few
// maintenance commands against the same data directory.
//
// Usage:
//
//	studio serve --config studio.yaml
//	studio jobs get <id>
//	studio templates builtin
//	studio transcripts import notes.pdf --owner alice
package main

import (
	"os"

	"github.com/example/transcript-studio/cmd/studio/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
