// Command bitwire-inspect is an interactive shell for exercising a
// Bitstream over a real TCP connection, grounded on the corpus's own
// cmd/main.go entry point (readline REPL wired to a live replica).
package main

import (
	"fmt"
	"os"

	"github.com/SaracenOne/bitwire/classreg"
	"github.com/SaracenOne/bitwire/repl"
	"github.com/SaracenOne/bitwire/wire"
)

func main() {
	r := repl.New(wire.Default, classreg.Default)
	if err := r.Open(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	defer r.Close()
	r.Run()
}
