package main

import (
	"os"

	"event-dataset-processor/internal/app"
)

func main() {
	os.Exit(app.ExitCode(app.Run(os.Args[1:], os.Stdout)))
}
