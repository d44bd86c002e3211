// Entrypoint for the Cobra CLI; all command wiring lives in package cmd.

package main

import (
	"github.com/trackbundle/trackbundle/cmd"
)

func main() {
	cmd.Execute()
}
