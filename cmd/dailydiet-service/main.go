package main

import (
	"flag"
	"os"

	"github.com/agleymelo/daily-diet-api/dietservice"
)

func main() {
	// Optional build-target flag override (local | cloud)
	buildTarget := flag.String("build-target", "", "Override DAILY_DIET_BUILD_TARGET (local, cloud)")
	flag.Parse()

	if err := dietservice.Run(dietservice.Options{BuildTarget: *buildTarget}); err != nil {
		os.Exit(1)
	}
}
