package main

import (
	"os"

	"github.com/shoemakerdr/ellie/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
