// gpdrive is a CLI for driving an interactive gnuplot process.
package main

import (
	"os"

	"github.com/plotworks/gpdrive/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
