// Command ytdl-bridge is the headless build: the same CLI and HTTP bridge
// without the desktop window toolkit.
package main

import (
	"os"

	"github.com/ytget/yt-desktop/internal/cli"
)

// Version is set at build time via ldflags
var version = "1.0.0"

func main() {
	if err := cli.Execute(version, nil); err != nil {
		os.Exit(1)
	}
}
