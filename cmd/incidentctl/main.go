// Command incidentctl reports and reviews citizen security incidents from the terminal.
package main

import (
	"os"

	"github.com/jrsteele09/citizen-watch/cmd/incidentctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
