package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/authority/internal/buildinfo"
	"github.com/dmitrijs2005/authority/internal/client/cli"
	"github.com/dmitrijs2005/authority/internal/client/config"
)

func main() {

	args := cli.StripGlobalFlags(os.Args[1:])
	if len(args) == 0 {
		buildinfo.PrintBuildData(os.Stdout)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

}
