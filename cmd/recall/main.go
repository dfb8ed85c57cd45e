package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/recall-sh/recall/internal/config"
)

func main() {
	config.LoadEnvFile(config.EnvFile())

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("recall"),
		kong.Description("Record and search your terminal history"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
