package main

import (
	"fmt"
	"os"

	"github.com/ytget/soundfetch/internal/commands"
)

// Set during build via -ldflags "-X main.version=X.Y.Z -X main.commit=... -X main.date=..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := commands.Execute(os.Args, commands.BuildArgs{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "soundfetch: %v\n", err)
		os.Exit(1)
	}
}
