package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/peterkuimelis/cuttle/internal/cli"
)

func main() {
	vsAI := flag.Bool("vs-ai", false, "play against a random opponent in seat 1")
	seed := flag.Int64("seed", 0, "shuffle seed (0 draws one from the clock)")
	saveDir := flag.String("save-dir", "saved_games", "directory for game snapshot files")
	scenarios := flag.String("scenarios", "", "path to a scenario YAML file")
	scenario := flag.String("scenario", "", "scenario name to start from (requires --scenarios)")
	flag.Parse()

	app := cli.New(cli.Config{
		VsAI:         *vsAI,
		Seed:         *seed,
		SaveDir:      *saveDir,
		ScenarioFile: *scenarios,
		ScenarioName: *scenario,
	})
	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
