package main

import (
	"os"

	"github.com/forgeworks/pagebridge/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
