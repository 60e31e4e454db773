// Package main is the entry point for the opusstream CLI.
//
// Usage:
//
//	opusstream [flags] <command> [args]
//
// Commands:
//
//	encode    - PCM (raw, WAV, MP3, Ogg Vorbis) to framed Opus packets
//	decode    - framed Opus packets to raw PCM or WAV
//	backends  - list codec backends and which one loads
//	profile   - manage named stream settings
//	version   - show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/opusstream/cmd/opusstream/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
