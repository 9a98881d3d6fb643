// Command effectcheck drives the checked-exceptions configuration
// resolver from the command line: it loads a serialized element/AST
// graph, settles the fixed-point resolver over it, and runs the three
// lint drivers, exactly mirroring the teacher's cmd/dwscript entry
// point shape (a thin main calling into a cobra command tree).
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/effectcheck/cmd/effectcheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
