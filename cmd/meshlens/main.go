// Command meshlens inspects STL and OBJ meshes, writes reference solids,
// and streams manufacturing recommendations from a language model.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
