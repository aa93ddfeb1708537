package main

import (
	"context"
	"log"
	"os"

	"timed-quiz/internal/cli"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("timed-quiz: ")

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
