// ABOUTME: Entry point for the assetmanagement CLI, REST server, TUI and MCP server
// ABOUTME: Hands off to the cobra command tree in package cli
package main

import (
	"os"

	"github.com/johanaerens/assetmanagement/cli"
)

const version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
