package main

import (
	"os"

	"github.com/coachable/course-coach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
