package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pluqqy/memberdesk/cmd/commands"
)

// Version is set during build with -ldflags
var version = "dev"

func main() {
	root := commands.NewRootCommand(version)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
