package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/sourcing/pkg/interfaces/cli/commands"
)

func main() {
	ctx := context.Background()

	if err := commands.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
