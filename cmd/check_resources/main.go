// Package main checks that every resource the story references is declared
// in data/resources.yaml and present under the assets directory.
//
// Usage:
//
//	go run ./cmd/check_resources [--assets .] [--skip-files]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/casefile/pkg/config"
	"github.com/decker502/casefile/pkg/embedded"
	"github.com/decker502/casefile/pkg/resources"
)

var (
	assetsFlag    = flag.String("assets", ".", "Directory that contains the assets/ folder")
	skipFilesFlag = flag.Bool("skip-files", false, "Only check the resource config, not the asset files")
	verboseFlag   = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS(*assetsFlag), os.DirFS("."))

	story, err := config.LoadStoryConfig(config.StoryConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rm := resources.NewResourceManager(nil)
	if err := rm.LoadResourceConfig(resources.ResourceConfigPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ids := resources.StoryResourceIDs(story)
	problems := rm.CheckStory(story, !*skipFilesFlag)
	for _, p := range problems {
		fmt.Printf("✗ %s\n", p)
	}
	if len(problems) > 0 {
		fmt.Printf("\n%d of %d resources have problems\n", len(problems), len(ids))
		os.Exit(1)
	}
	fmt.Printf("✓ All %d story resources resolved\n", len(ids))
}
