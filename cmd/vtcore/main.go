// Command vtcore is the editor's server and CLI: it hosts sessions over
// HTTP/WebSocket and exposes session and picker operations from the
// terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
