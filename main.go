// This is the main-driver for our compiler.
package main

import (
	"os"

	"github.com/ud2/stackc/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
