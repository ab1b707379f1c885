// Command voicectl is operator tooling for the relay: it mints room tokens,
// publishes tasks and builds push envelopes for driving a local worker.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
