// Command vfa-propgen converts a folder of tab-delimited property files
// into a single PropertyList.json. It is peripheral to the archive format
// itself.
package main

import (
	"fmt"
	"os"

	"github.com/vfarchive/vfa/propgen"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <property_folder>\n", os.Args[0])
		os.Exit(1)
	}

	if err := propgen.Generate(os.Args[1], "PropertyList.json"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
