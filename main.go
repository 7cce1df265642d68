package main

import (
	"os"

	"github.com/quizcraft/quizcraft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
