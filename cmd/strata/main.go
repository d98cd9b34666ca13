// Command strata compiles versioned type declarations and resolves them as
// of any version on their axis.
package main

import (
	"os"

	"github.com/roach88/strata/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
