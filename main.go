package main

import (
	"os"

	"github.com/pedroaraujo20/thumbgo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
